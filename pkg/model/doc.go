/*
Package model implements the traced data model: nodes holding value slots, and the
values those slots hold.

Every node, slot and edge belongs to an Arena, which scopes naming counters to one
run of a routine and resolves the ids carried by pointer-like values. Exercise
code builds its structures through the constructors here (NewObject, NewArray,
NewGraph, NewTreeNode, ...) and compares values with Arena.Eq.

Nodes are named after their kind and a per-arena counter ("Object 1", "Array 2").
Slots are named after their owner: "Object 1.next", "Array 2[3]". A node stored
inside another node's slot is embedded and takes the slot's name.
*/
package model
