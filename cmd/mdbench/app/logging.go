package app

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("mdbench/cli", "command line")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
