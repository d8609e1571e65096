// Copyright 2023 Canonical Ltd.
// Licensed under Apache 2.0, see LICENCE file for details.

/*
Package typeinfo contains code relating to Go types and their processing in
sqltable. As much as possible, reflection code is limited to this package. It
derives the ordered column registry of a struct from its "db" tags and reads
and writes column values on instances of that struct.
*/
package typeinfo
