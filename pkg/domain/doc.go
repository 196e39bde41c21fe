/*
Package domain contains the core domain types shared by every layer of the tracer.

It defines the vocabulary of a step-sequenced exercise: the kinds of steps an algorithm
routine can yield, the opaque element handles that tie steps to rendered surfaces, the
persisted progress of a learner, and the score reported to a grading host. This package
is kept pure and free of external dependencies like I/O or persistence, following
Hexagonal Architecture principles.

# Key Entities

  - StepType: The kind of interaction a step expects (select, input, connect, click, ...).
  - Element: An opaque handle naming something the learner can point at.
  - State: The persisted progress of one exercise ({data, lastStep}).
  - Session: A State bound to a named exercise, as stored by hosts.
  - Score: The grading summary ({maxscore, achieved, partial}).
*/
package domain
