// Package models defines the core domain models for SplitEasy.
//
// # Models
//
//   - User: a participant of the shared ledger
//   - Expense: money fronted by one user and shared among participants
//   - Share: one participant's part of an expense (equal or custom)
//   - Settlement: a transfer between two users, proposed or confirmed
//   - Document: the persisted snapshot of users, expenses and settlements
//
// # Design Principles
//
// 1. **Immutable records**: expenses and confirmed settlements are never edited
// in place. Editing an expense means removing it and adding a new one.
// 2. **Avoid circular references**: relationships are ID strings, not pointers.
// 3. **Decimal money**: amounts are shopspring decimals; comparisons go
// through the amount package tolerance.
// 4. **Dangling references are data**: an expense may name a user that no
// longer exists; readers must tolerate it.
package models
