// Copyright (c) 2026 Lectoria. All rights reserved.
// Author: velmoras.dev@gmail.com

/*
Package schema centralizes table and column names for the Lectoria database.

Each table is described by a struct of column names plus a package-level
instance. Query builders reference these instead of string literals, so a
rename in a migration has exactly one place to be reflected in Go code.
*/
package schema
