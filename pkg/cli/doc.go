// Package cli implements the todo-admin command-line tool.
//
// # Commands
//
// migrate: create the users and tasks tables and their indexes
//
//	todo-admin migrate
//
// verify: connect, check that every table exists and print row counts
//
//	todo-admin verify
//
// Both commands read DATABASE_URL (and a .env file, if present) through
// pkg/config. Neither command ever prints row contents.
package cli
