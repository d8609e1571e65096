// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

/*
Package value contains the column value variant shared by records, conditions
and result rows, and the rules for rendering a value as a SQL literal that is
inlined into generated statements.
*/
package value
