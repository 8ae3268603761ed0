// Package service contains the application's use cases: accepting
// asynchronous requests, listening for their results and answering status
// queries.
//
// Every service receives its collaborators (event dispatcher, state store,
// request ledger, logger) through its constructor. Request acceptors
// validate input, assign a correlation ID, open a ledger entry and hand a
// task to the dispatcher; they never wait for the result. The ResultListener
// consumes results and persists them under the same correlation ID.
package service
