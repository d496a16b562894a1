// SPDX-License-Identifier: MIT

// Package dispatch runs independent work units in parallel and folds their
// results in index order.
//
// Ordered is the only scheduling primitive of the module: work units run on a
// bounded errgroup, push their private result on a queue, and a single
// goroutine (the caller's) drains the queue, holding early results until every
// lower index has been merged. The merged output is therefore identical for
// any number of threads, down to the last bit of every floating-point sum.
package dispatch
