// Package economy settles wheel spins, direct purchases and manual balance
// adjustments for the duck currency.
//
// Every function here is a pure calculation over the values it is given: no
// I/O, no locking, no shared state. Callers load a consistent snapshot of the
// user, level and prizes, serialize operations per user, and persist the
// returned user together with the log, order or ledger entry.
package economy
