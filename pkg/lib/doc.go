// Package lib provides a Go SDK to run version gated migration tasks
// programmatically.
//
// Tasks are registered with an application version window, the dependencies
// that must succeed before them and the number of failed executions allowed.
// Every task status is persisted, so a task that succeeded is never executed
// again and a failed task is retried on the next run until it runs out of
// attempts.
//
// # Quick Start
//
//	client, err := lib.New(ctx, lib.Config{AppVersion: "1.4.0"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	statuses, err := client.Migrate(ctx,
//	    lib.NewTask("create-users", createUsers),
//	    lib.NewTask("backfill-emails", backfillEmails,
//	        lib.WithDependencies("create-users"),
//	        lib.WithFrom(lib.MustParse("1.3.0")),
//	        lib.WithMaxAttempts(3),
//	    ),
//	)
//
// Task failures are not returned as errors, check the returned statuses.
// Only invalid setups (see [ErrSetup]) fail the run before anything runs.
//
// # Plans
//
// Shell based tasks can be declared in a YAML plan and run with
// [Client.RunPlan]:
//
//	tasks:
//	  - id: create-users
//	    run: psql -f create_users.sql
//	  - id: backfill-emails
//	    from: 1.3.0
//	    depends_on: [create-users]
//	    max_attempts: 3
//	    run: ./backfill.sh
//
// # Storage
//
// Statuses are stored in a SQLite database, ~/.migrator/migrator.db by
// default. Set [Config].InMemory for tests.
package lib
