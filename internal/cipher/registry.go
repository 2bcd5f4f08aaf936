package cipher

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// ErrDuplicateOperation is returned when a name is registered twice.
var ErrDuplicateOperation = errors.New("operation already registered")

// registry maps operation names to operations. The package keeps one, filled
// by init with the decrypt and encrypt transform of every catalog kind.
type registry struct {
	mu  sync.RWMutex
	ops map[string]Operation
}

var operations = &registry{ops: make(map[string]Operation)}

func (r *registry) add(op Operation) error {
	if op == nil {
		return errors.New("cannot register nil operation")
	}
	name := op.Name()
	if name == "" {
		return errors.New("operation name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.ops[name]; dup {
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, name)
	}
	r.ops[name] = op
	return nil
}

func (r *registry) lookup(name string) (Operation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	op, ok := r.ops[name]
	return op, ok
}

func (r *registry) remove(name string) {
	r.mu.Lock()
	delete(r.ops, name)
	r.mu.Unlock()
}

// matching returns the operations keep accepts, ordered by name.
func (r *registry) matching(keep func(Operation) bool) []Operation {
	r.mu.RLock()
	out := make([]Operation, 0, len(r.ops))
	for _, op := range r.ops {
		if keep == nil || keep(op) {
			out = append(out, op)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Operation) int { return strings.Compare(a.Name(), b.Name()) })
	return out
}

// RegisterOperation makes op available to GetOperation and pipelines.
func RegisterOperation(op Operation) error {
	return operations.add(op)
}

// GetOperation looks an operation up by registry name, e.g. "vigenere_decrypt".
func GetOperation(name string) (Operation, bool) {
	return operations.lookup(name)
}

// UnregisterOperation drops name. Tests use it to clean up mocks.
func UnregisterOperation(name string) {
	operations.remove(name)
}

// ListOperations returns every operation sorted by name.
func ListOperations() []Operation {
	return operations.matching(nil)
}

// ListOperationsByType returns the encrypt or decrypt operations.
func ListOperationsByType(opType OperationType) []Operation {
	return operations.matching(func(op Operation) bool { return op.Type() == opType })
}

// ListOperationsByKind returns the operations of one cipher family.
func ListOperationsByKind(kind Kind) []Operation {
	return operations.matching(func(op Operation) bool { return op.Kind() == kind })
}
