package bench

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("mdbench/bench", "benchmark driver")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
