// Package db embeds the SQL schema applied at startup.
package db

import _ "embed"

// Schema holds the DDL that creates the products and orders tables.
//
//go:embed migrations/001_schema.sql
var Schema string
