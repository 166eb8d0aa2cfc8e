package command

import (
	"fmt"

	"hushtype/log"
)

// Registry decides which intents the user has left enabled and resolves
// user-defined spoken phrases ahead of the built-in patterns.
type Registry interface {
	IsEnabled(intent Intent) bool

	// ResolveCustomCommand maps a whole spoken body straight to a
	// command. It reports false when no user-defined phrase matches.
	ResolveCustomCommand(text string) (ParsedCommand, bool)
}

// Permissions reports OS-level authorization state.
type Permissions interface {
	AutomationGranted() bool
}

// Actions dispatches one parsed command against the operating system and
// returns a human-readable confirmation message.
type Actions interface {
	Run(cmd ParsedCommand) (string, error)
}

// Executor validates and dispatches parsed commands.
type Executor struct {
	registry Registry
	perms    Permissions
	actions  Actions
}

func NewExecutor(registry Registry, perms Permissions, actions Actions) *Executor {
	return &Executor{registry: registry, perms: perms, actions: actions}
}

// Execute dispatches a single command. Validation failures come back as a
// failed Result, never as a panic or a silent drop.
func (e *Executor) Execute(cmd ParsedCommand) Result {
	if e.registry != nil && !e.registry.IsEnabled(cmd.Intent) {
		return Result{Intent: cmd.Intent, Message: fmt.Sprintf("%s is disabled", cmd.DisplayName)}
	}
	if cmd.Intent.RequiresAutomation() && (e.perms == nil || !e.perms.AutomationGranted()) {
		return Result{Intent: cmd.Intent, Message: fmt.Sprintf("%s needs system automation permission", cmd.DisplayName)}
	}
	for _, ent := range requiredEntities[cmd.Intent] {
		if cmd.Entities[ent] == "" {
			return Result{Intent: cmd.Intent, Message: fmt.Sprintf("%s: missing %s", cmd.DisplayName, ent)}
		}
	}

	msg, err := e.actions.Run(cmd)
	if err != nil {
		log.Errorf("command %s failed: %v", cmd.Intent, err)
		return Result{Intent: cmd.Intent, Message: err.Error()}
	}
	return Result{OK: true, Intent: cmd.Intent, Message: msg}
}

// ExecuteChain runs commands in order and stops at the first failure.
// The returned slice holds one Result per attempted command, so a chain
// that fails midway reports the partial progress.
func (e *Executor) ExecuteChain(cmds []ParsedCommand) []Result {
	results := make([]Result, 0, len(cmds))
	succeeded := 0
	for _, cmd := range cmds {
		res := e.Execute(cmd)
		results = append(results, res)
		if !res.OK {
			break
		}
		succeeded++
	}
	log.CommandChain(len(cmds), len(results), succeeded)
	return results
}
