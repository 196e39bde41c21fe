/*
Package runner implements the interactive loop that drives a tracer Engine from a terminal.

The runner presents the pending step, reads learner commands (select, input,
connect, click, continue), submits them and saves the session after every
resolved step, so a run interrupted at any point resumes where it stopped.

# Key Components

  - Runner: the loop. Pause steps resolve on their own after PauseDelay.
  - IOHandler: decouples how prompts are shown and commands are read.
  - TextHandler: the line-based implementation used by the CLI.

# Usage

	r := runner.NewRunner(
		runner.WithSession(manager, sess.ID),
		runner.WithPauseDelay(cfg.PauseDelay),
	)

	if err := r.Run(ctx, engine); err != nil {
		log.Fatal(err)
	}
*/
package runner
