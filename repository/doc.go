// Package repository provides transaction-safe generic data access on top of
// Bun. Every Repository call runs as one unit of work through a TxRunner;
// FailSoftRepository offers the older contract where storage failures come
// back as empty results instead of errors.
package repository
