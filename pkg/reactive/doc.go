/*
Package reactive provides the host-side reactive primitives the effect reacts
to: event streams (taps), behaviours (camera facing, recording state), one-shot
subscriptions and single-resolution futures.

None of the types are safe for concurrent use. They are meant to be driven
from the single host loop in package reactor, which delivers one event at a
time.
*/
package reactive
