package ssa

// SSAValidationEnabled, when true, makes RunPasses assert every basic
// block's invariants (sealed-ness, predecessor/successor consistency) as
// it walks the reachable graph. Off by default; flip it on when chasing a
// builder bug, never in a committed change.
const SSAValidationEnabled = false
