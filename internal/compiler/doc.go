// Package compiler drives the incremental compilation pipeline: exactly
// one artifact per token, cache consulted before the oracle, and on
// document edits only changed or added tokens recompiled. It also hosts
// the bounded self-repair loop that alternates validation with
// oracle-driven fixes.
package compiler
