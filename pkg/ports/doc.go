/*
Package ports defines the driven ports (interfaces) for the Tracer hosts.

These interfaces decouple the session and transport layers from concrete
implementations, allowing the same host to run over various storage backends
and exercise catalogs.

# Key Interfaces

  - ExerciseLoader: Resolves exercise routines by name (e.g., the built-in catalog).
  - StateStore: Persists and loads sessions ({data, lastStep} plus the exercise name).
  - DistributedLocker: Provides distributed locking for concurrent session access.
*/
package ports
