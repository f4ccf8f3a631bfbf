// Package vesting provides a composable vesting-schedule ledger for Go applications.
//
// Vesting is designed as a library, not a service. Import it directly into your
// Go application and wire it to your asset ledger. It provides:
//
//   - Linear time-based vesting with cliff and slice quantization
//   - Deterministic integer accounting (no floating point, 128-bit intermediates)
//   - Commit-before-transfer release and revocation with rollback
//   - Pluggable storage (memory, SQLite, Postgres, MongoDB via Grove)
//   - Lifecycle events via a plugin registry
//
// # Quick Start
//
// Create a ledger instance with your preferred store:
//
//	import (
//	    "github.com/xraph/vesting"
//	    "github.com/xraph/vesting/store/postgres"
//	)
//
//	// Initialize store (db is a *grove.DB opened with the Postgres driver)
//	store := postgres.New(db)
//
//	// Create ledger
//	l := vesting.New(store, tok, owner)
//
//	// Start the ledger (runs migrations, initializes plugins)
//	if err := l.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Stop()
//
// # Core Concepts
//
// Grants define what a beneficiary is owed and on what timeline:
//
//	sched, err := l.CreateSchedule(ctx, owner, vesting.Grant{
//	    Beneficiary: alice,
//	    Start:       time.Now(),
//	    CliffPeriod: 180 * 24 * time.Hour,
//	    Duration:    2 * 365 * 24 * time.Hour,
//	    Slice:       time.Second,
//	    Revocable:   true,
//	    Total:       1_000_000,
//	})
//
// Beneficiaries claim what has vested:
//
//	amount, err := l.Release(ctx, alice, alice, sched.Index)
//
// Owners revoke revocable grants; the accrued slice settles to the
// beneficiary and the remainder refunds to the treasury:
//
//	releasedNow, refunded, err := l.Revoke(ctx, owner, alice, sched.Index)
//
// # Accounting
//
// All amounts use integer arithmetic in base units of the managed asset.
// Vested amounts are floor(total * elapsed / duration) with the multiply
// carried out at 128-bit width, so no grant can overflow or lose
// precision. Vesting math works at second granularity.
//
// Every mutating operation commits store state before issuing the
// external asset transfer and holds no lock across that call. A transfer
// that fails rolls the commit back; a token that re-enters the ledger
// observes already-committed state and cannot double-spend.
//
// # TypeID
//
// All entities use TypeID for globally unique, type-safe identifiers:
//
//	acct_01h2xcejqtf2nbrexx3vqjhp41  // Account ID
//	vest_01h2xcejqtf2nbrexx3vqjhp41  // Schedule ID
//	vrec_01h455vb4pex5vsknk084sn02q  // Lifecycle record ID
//
// TypeIDs are K-sortable, making them ideal for database indexes and
// providing natural time-ordering of entities.
package vesting
