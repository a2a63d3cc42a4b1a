// Package engine implements the command engine: it executes registry
// operations, records each execution as an undoable command, and maintains
// the undo/redo stacks.
package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/calc-go/internal/domain"
	"github.com/doeshing/calc-go/internal/ports"
)

// inverses is the static inverse table. Total over the built-in operation
// set; plugin-only operations have no entry and cannot be undone.
var inverses = map[string]string{
	"add":      "subtract",
	"subtract": "add",
	"multiply": "divide",
	"divide":   "multiply",
}

// Service is the command engine. One instance per calculator; the mutex
// serializes stack mutation so a future multi-session surface stays correct.
type Service struct {
	Registry ports.OperationRegistry
	History  ports.HistoryRepository
	Logger   ports.Logger

	mu        sync.Mutex
	undoStack []domain.Command
	redoStack []domain.Command

	now func() time.Time
}

// New wires a command engine.
func New(registry ports.OperationRegistry, history ports.HistoryRepository, log ports.Logger) *Service {
	return &Service{
		Registry: registry,
		History:  history,
		Logger:   log,
		now:      time.Now,
	}
}

// Execute resolves the named operation, applies it, and on success records
// the execution as an undoable command. An arithmetic precondition failure
// propagates unchanged and leaves the stacks untouched. Persistence is
// fire-and-forget: an append failure is logged, never returned.
func (s *Service) Execute(name string, a, b float64) (float64, error) {
	name = strings.ToLower(name)
	op, err := s.Registry.Resolve(name)
	if err != nil {
		return 0, err
	}

	result, err := op.Apply(a, b)
	if err != nil {
		return 0, err
	}

	cmd := domain.Command{
		Operation: name,
		OperandA:  a,
		OperandB:  b,
		Result:    result,
		Inverse:   inverses[name],
	}

	s.mu.Lock()
	s.undoStack = append(s.undoStack, cmd)
	s.redoStack = s.redoStack[:0]
	s.mu.Unlock()

	s.persist(cmd)
	s.Logger.Debug("executed operation", map[string]interface{}{
		"operation": name,
		"operand_a": a,
		"operand_b": b,
		"result":    result,
	})
	return result, nil
}

// Undo pops the most recent command and applies its inverse operation to
// re-derive the prior result. The popped command moves to the redo stack.
// If the command has no inverse, or the inverse itself fails (e.g. dividing
// by a zero operand when undoing a multiply), the command is restored and
// the stacks are left exactly as they were.
func (s *Service) Undo() (float64, error) {
	s.mu.Lock()
	if len(s.undoStack) == 0 {
		s.mu.Unlock()
		return 0, domain.ErrNothingToUndo
	}
	cmd := s.undoStack[len(s.undoStack)-1]
	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.mu.Unlock()

	prior, err := s.applyInverse(cmd)
	if err != nil {
		s.mu.Lock()
		s.undoStack = append(s.undoStack, cmd)
		s.mu.Unlock()
		return 0, err
	}

	s.mu.Lock()
	s.redoStack = append(s.redoStack, cmd)
	s.mu.Unlock()

	s.Logger.Debug("undid operation", map[string]interface{}{
		"operation": cmd.Operation,
		"result":    prior,
	})
	return prior, nil
}

// Redo replays the most recently undone command with its captured operands
// and pushes it back onto the history stack.
func (s *Service) Redo() (float64, error) {
	s.mu.Lock()
	if len(s.redoStack) == 0 {
		s.mu.Unlock()
		return 0, domain.ErrNothingToRedo
	}
	cmd := s.redoStack[len(s.redoStack)-1]
	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.mu.Unlock()

	var result float64
	op, err := s.Registry.Resolve(cmd.Operation)
	if err == nil {
		result, err = op.Apply(cmd.OperandA, cmd.OperandB)
	}
	if err != nil {
		s.mu.Lock()
		s.redoStack = append(s.redoStack, cmd)
		s.mu.Unlock()
		return 0, err
	}

	cmd.Result = result
	s.mu.Lock()
	s.undoStack = append(s.undoStack, cmd)
	s.mu.Unlock()

	s.persist(cmd)
	s.Logger.Debug("redid operation", map[string]interface{}{
		"operation": cmd.Operation,
		"result":    result,
	})
	return result, nil
}

// HistoryLen reports the undo stack depth.
func (s *Service) HistoryLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.undoStack)
}

// RedoLen reports the redo stack depth.
func (s *Service) RedoLen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redoStack)
}

func (s *Service) applyInverse(cmd domain.Command) (float64, error) {
	if !cmd.Invertible() {
		return 0, fmt.Errorf("operation %q has no inverse: %w", cmd.Operation, domain.ErrInvalidOperation)
	}
	inv, err := s.Registry.Resolve(cmd.Inverse)
	if err != nil {
		return 0, err
	}
	return inv.Apply(cmd.Result, cmd.OperandB)
}

func (s *Service) persist(cmd domain.Command) {
	if s.History == nil {
		return
	}
	rec := domain.HistoryRecord{
		Timestamp: s.now(),
		Operation: cmd.Operation,
		OperandA:  cmd.OperandA,
		OperandB:  cmd.OperandB,
		Result:    cmd.Result,
	}
	if err := s.History.Append(rec); err != nil {
		s.Logger.Error("failed to persist history record", err, map[string]interface{}{
			"operation": cmd.Operation,
		})
	}
}
