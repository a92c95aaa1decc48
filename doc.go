// Package cardstock manages a sealed trading-card shop's catalog: a durable
// single-file store of inventory items, and the reconciliation machinery
// that keeps their market prices fresh.
//
// The core functionalities include:
//   - Durable Store: a JSON store file with schema-locked normalization on
//     read, crash-safe atomic writes, and a rotating backups/ directory.
//   - Reconciliation Engine: one sync entry point that selects stale items,
//     fetches batch prices, merges them without touching the admin-owned
//     fields, locks first-price baselines and reports restocks.
//   - Pricing: selling prices derived from market prices by a per-item or
//     shop-wide percent, and price movements since the last observation and
//     since the baseline.
//
// This package serves as the foundational logic for the `csk` command-line
// tool; the subpackages provide the pricing-service client (justtcg), the
// rolling-window rate limiter (ratelimit), markdown reports (renderer), the
// AI shop assistant (assist) and the embedded documentation (docs).
package cardstock
