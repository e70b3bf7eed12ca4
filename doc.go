// Package wallet values a wallet of assets day by day and measures its
// performance independently of deposits and withdrawals.
//
// The core functionalities include:
//   - Valuation: on every trading day of an evaluation window, the orders of the
//     day are applied and each holding is priced at its last known close. The
//     result is a series of wallet values and cumulative net investments, from
//     which cash flows are derived.
//   - Performance: a share value index rebased on cash flows, a share units index
//     issuing and redeeming units at the previous unit value, and the
//     time-weighted rate of return.
//   - Market data and orders: asset definitions, daily closes and orders held in
//     memory and persisted as human readable JSONL files. The sqlite package
//     stores the same data in a database, the yahoo package fetches closes.
//   - Asset identification: MSSI (ISIN.MIC), currency pairs and private ids.
//     Currency pairs convert the prices of assets quoted in another currency.
//
// The valuation engine is synchronous and does no I/O. Collaborators reading
// storage take a context.Context.
package wallet
