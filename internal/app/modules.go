package app

import (
	"github.com/ChenchengLiang/tf2-gnn/internal/registry"
	"github.com/ChenchengLiang/tf2-gnn/tasks/classification"
	"github.com/ChenchengLiang/tf2-gnn/tasks/messagepassing"
	"github.com/ChenchengLiang/tf2-gnn/tasks/regression"
)

// coreModules lists the built-in task modules registered when the caller
// does not supply its own set.
var coreModules = []registry.Module{
	&messagepassing.Module{},
	&regression.Module{},
	&classification.Module{},
}
