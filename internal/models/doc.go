// Package models defines the core domain models for Going Dutch.
//
// # Models
//
//   - Group: A travel or household group sharing expenses, joined by invite code
//   - Member: A person inside one group (a user has a separate member per group)
//   - Expense: A single payment, split equally or by custom amounts
//   - SettlementStatus: Whether a computed payment between two members was marked paid
//   - User: An anonymous session identity
//   - Membership: Which member a user is in which group
//
// # Design Principles
//
// 1. **Derived data is never stored**: balances and transactions are recomputed
// from expenses on every read (see the calculator package)
// 2. **Money is decimal**: amounts use shopspring/decimal, never float64
// 3. **Avoid circular references**: Use ID strings instead of pointers for relationships
// 4. **Anonymous identity**: users have no credentials, only a signed session token
package models
