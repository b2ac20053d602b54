package lineitem

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStructural marks template defects; they invalidate every subject.
	ErrStructural = errors.New("template structure invalid")
	// ErrData marks context defects; they invalidate one subject only.
	ErrData = errors.New("evaluation context incomplete")
)

type CycleError struct {
	Participants []string
}

func (e *CycleError) Error() string {
	if len(e.Participants) == 0 {
		return "dependency cycle detected"
	}
	path := append(append([]string(nil), e.Participants...), e.Participants[0])
	return "dependency cycle: " + strings.Join(path, " -> ")
}

func (e *CycleError) Is(target error) bool { return target == ErrStructural }

// UnknownReferenceError reports an operand that names neither a component nor
// a line item. Section is set when the operand is a section total that would
// sum the referencing item into itself.
type UnknownReferenceError struct {
	LineItemID string
	OperandID  string
	Section    SectionKind
}

func (e *UnknownReferenceError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("line item %q references section total %q which includes its own category", e.LineItemID, e.OperandID)
	}
	return fmt.Sprintf("line item %q references unknown id %q", e.LineItemID, e.OperandID)
}

func (e *UnknownReferenceError) Is(target error) bool { return target == ErrStructural }

type UnsupportedFormulaKindError struct {
	LineItemID string
	Kind       Kind
}

func (e *UnsupportedFormulaKindError) Error() string {
	return fmt.Sprintf("line item %q has unsupported formula kind %q", e.LineItemID, e.Kind)
}

func (e *UnsupportedFormulaKindError) Is(target error) bool { return target == ErrStructural }

type DuplicateIDError struct {
	ID       string
	Existing string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("id %q is already declared as a %s", e.ID, e.Existing)
}

func (e *DuplicateIDError) Is(target error) bool { return target == ErrStructural }

type InvalidLineItemError struct {
	LineItemID string
	Reason     string
}

func (e *InvalidLineItemError) Error() string {
	if e.LineItemID == "" {
		return "invalid line item: " + e.Reason
	}
	return fmt.Sprintf("line item %q: %s", e.LineItemID, e.Reason)
}

func (e *InvalidLineItemError) Is(target error) bool { return target == ErrStructural }

type MissingComponentValueError struct {
	LineItemID  string
	ComponentID string
}

func (e *MissingComponentValueError) Error() string {
	return fmt.Sprintf("line item %q needs a value for component %q", e.LineItemID, e.ComponentID)
}

func (e *MissingComponentValueError) Is(target error) bool { return target == ErrData }

// EvaluationError ties a failed pass to its subject and line item.
type EvaluationError struct {
	Subject    string
	LineItemID string
	Err        error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("evaluate %q for subject %q: %v", e.LineItemID, e.Subject, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }

func IsStructural(err error) bool {
	return errors.Is(err, ErrStructural)
}
