/*
Package session implements session management and persistence orchestration.

A session binds an exercise name to its persisted {data, lastStep} state. The
Manager serializes access per session within a process and, with a distributed
locker, across replicas.
*/
package session
