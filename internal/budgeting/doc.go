// Package budgeting holds the budget tracking engine: budget windows, currency
// conversion, spend aggregation, status classification, overlap detection and
// impact simulation for transactions that have not been recorded yet.
//
// Everything here is synchronous and works only on the values it is given. Loading
// budgets, transactions and exchange rates is the caller's job; the one exception is
// the Resolver, which asks a RateSource for rate records.
package budgeting
