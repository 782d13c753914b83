// Package studio holds the view/edit reconciliation for a single studio
// record: which record is shown, which draft edits are pending, and how the
// create/update/delete round-trips fold back into that state.
//
// All state lives in State and only changes through Reduce. Dispatcher runs
// the remote calls and hands back the Action to reduce plus any navigation or
// notice the caller should surface. Nothing in here knows about terminals.
package studio
