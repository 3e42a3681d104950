// Package conversation drives the lost-package dialogue.
//
// The dialogue is a fixed state machine:
//
//	CollectOrderID -> CollectEmail -> CollectZip -> ConfirmFields -> Lookup -> PresentResult -> FollowUp -> End
//
// with Escalate reachable from every collection state and from ConfirmFields, and Aborted
// entered whenever the transport reports end of input. The driver only talks to the outside
// world through Transport, so the console and the HTTP chat run the same logic.
package conversation
