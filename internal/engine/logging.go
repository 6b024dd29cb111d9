package engine

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("mdbench/engine", "molecular dynamics engine")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
