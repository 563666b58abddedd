// Package editsession holds an editable draft of one record next to the
// original it was started from, and validates the draft field by field.
package editsession

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/sorenmh/homeservices-admin/internal/models"
	"github.com/sorenmh/homeservices-admin/internal/mutation"
)

// DiscardPrompt is asked before dropping a changed draft
const DiscardPrompt = "Discard unsaved changes?"

var (
	ErrNotStarted       = errors.New("no edit in progress")
	ErrUnknownField     = errors.New("unknown field")
	ErrReadOnlyField    = errors.New("field is read-only")
	ErrUnsupportedField = errors.New("field cannot be set from text")
)

type cloner[T any] interface {
	Clone() T
}

type field struct {
	name   string
	goName string
	index  []int
	kind   reflect.Kind
	ptr    bool
}

// Option configures a Session
type Option[T any] func(*Session[T])

// WithRecompute runs fn on the draft after every change, for derived fields
func WithRecompute[T any](fn func(*T)) Option[T] {
	return func(s *Session[T]) {
		s.recompute = fn
	}
}

// WithReadOnly marks extra json fields as not editable
func WithReadOnly[T any](names ...string) Option[T] {
	return func(s *Session[T]) {
		for _, n := range names {
			s.readOnly[n] = true
		}
	}
}

// Session is the edit state of one record. Not safe for concurrent use.
type Session[T any] struct {
	id       string
	active   bool
	draft    T
	original T

	fieldErrors map[string]string
	parseErrors map[string]string

	fields    map[string]field
	order     []string
	readOnly  map[string]bool
	recompute func(*T)
}

// New creates an idle session for records of type T, which must be a struct
func New[T any](opts ...Option[T]) *Session[T] {
	s := &Session[T]{
		fields:      make(map[string]field),
		readOnly:    map[string]bool{"id": true, "createdAt": true, "updatedAt": true},
		fieldErrors: make(map[string]string),
		parseErrors: make(map[string]string),
	}
	for _, opt := range opts {
		opt(s)
	}

	typ := reflect.TypeOf((*T)(nil)).Elem()
	if typ.Kind() != reflect.Struct {
		return s
	}
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := strings.SplitN(sf.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			name = sf.Name
		}

		f := field{name: name, goName: sf.Name, index: sf.Index, kind: sf.Type.Kind()}
		if f.kind == reflect.Pointer {
			f.ptr = true
			f.kind = sf.Type.Elem().Kind()
		}
		s.fields[name] = f
		s.order = append(s.order, name)
	}
	return s
}

// Start begins editing entity. The draft and the original are independent copies.
func (s *Session[T]) Start(id string, entity T) {
	s.id = id
	s.active = true
	s.original = clone(entity)
	s.draft = clone(entity)
	clear(s.fieldErrors)
	clear(s.parseErrors)
}

// Active reports whether an edit is in progress
func (s *Session[T]) Active() bool {
	return s.active
}

// ID returns the id of the record being edited
func (s *Session[T]) ID() string {
	return s.id
}

// Draft returns a copy of the draft
func (s *Session[T]) Draft() T {
	return clone(s.draft)
}

// Original returns a copy of the record the session started from
func (s *Session[T]) Original() T {
	return clone(s.original)
}

// Fields returns the editable json field names in declaration order
func (s *Session[T]) Fields() []string {
	out := make([]string, 0, len(s.order))
	for _, name := range s.order {
		if !s.readOnly[name] {
			out = append(out, name)
		}
	}
	return out
}

// SetField parses raw into the named field of the draft and validates that
// field. Text that does not parse for a numeric or boolean field becomes a
// field error and leaves the draft unchanged.
func (s *Session[T]) SetField(name, raw string) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}

	v := reflect.ValueOf(&s.draft).Elem().FieldByIndex(f.index)
	if msg, err := assign(v, f, raw); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	} else if msg != "" {
		s.parseErrors[name] = msg
		s.fieldErrors[name] = msg
		return nil
	}
	delete(s.parseErrors, name)

	s.changed(name)
	return nil
}

// Update edits the draft in place and validates the named field
func (s *Session[T]) Update(name string, fn func(*T)) error {
	f, err := s.lookup(name)
	if err != nil {
		return err
	}
	fn(&s.draft)
	delete(s.parseErrors, f.name)
	s.changed(f.name)
	return nil
}

// Value renders the draft's field as text, the inverse of SetField
func (s *Session[T]) Value(name string) (string, error) {
	f, ok := s.fields[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	v := reflect.ValueOf(&s.draft).Elem().FieldByIndex(f.index)
	if f.ptr {
		if v.IsNil() {
			return "", nil
		}
		v = v.Elem()
	}
	switch f.kind {
	case reflect.String:
		return v.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'f', -1, 64), nil
	case reflect.Bool:
		return strconv.FormatBool(v.Bool()), nil
	default:
		return fmt.Sprintf("%v", v.Interface()), nil
	}
}

// FieldError returns the current error of one field
func (s *Session[T]) FieldError(name string) string {
	return s.fieldErrors[name]
}

// FieldErrors returns a copy of the current errors keyed by json field name
func (s *Session[T]) FieldErrors() map[string]string {
	out := make(map[string]string, len(s.fieldErrors))
	for k, v := range s.fieldErrors {
		out[k] = v
	}
	return out
}

// ValidateAll runs every rule on the draft, replaces the error set and
// reports whether it is empty
func (s *Session[T]) ValidateAll() bool {
	clear(s.fieldErrors)
	if err := models.Validate(s.draft); err != nil {
		var verrs models.ValidationErrors
		if errors.As(err, &verrs) {
			for k, v := range verrs.ByField() {
				s.fieldErrors[k] = v
			}
		} else {
			s.fieldErrors[""] = err.Error()
		}
	}
	for k, v := range s.parseErrors {
		s.fieldErrors[k] = v
	}
	return len(s.fieldErrors) == 0
}

// Validate is ValidateAll as an error, for use as a submit gate
func (s *Session[T]) Validate() error {
	if !s.active {
		return ErrNotStarted
	}
	if s.ValidateAll() {
		return nil
	}
	names := make([]string, 0, len(s.fieldErrors))
	for k := range s.fieldErrors {
		names = append(names, k)
	}
	sort.Strings(names)

	out := make(models.ValidationErrors, 0, len(names))
	for _, k := range names {
		out = append(out, models.ValidationError{Field: k, Message: s.fieldErrors[k]})
	}
	return out
}

// HasChanges reports whether the draft differs from the original. A nil
// slice or map counts as equal to an empty one.
func (s *Session[T]) HasChanges() bool {
	if !s.active {
		return false
	}
	return !equivalent(reflect.ValueOf(s.draft), reflect.ValueOf(s.original))
}

func equivalent(a, b reflect.Value) bool {
	if !a.IsValid() || !b.IsValid() {
		return a.IsValid() == b.IsValid()
	}
	if a.Type() != b.Type() {
		return false
	}
	switch a.Kind() {
	case reflect.Slice:
		if a.Len() != b.Len() {
			return false
		}
		for i := 0; i < a.Len(); i++ {
			if !equivalent(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Array:
		for i := 0; i < a.Len(); i++ {
			if !equivalent(a.Index(i), b.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if a.Len() != b.Len() {
			return false
		}
		iter := a.MapRange()
		for iter.Next() {
			other := b.MapIndex(iter.Key())
			if !other.IsValid() || !equivalent(iter.Value(), other) {
				return false
			}
		}
		return true
	case reflect.Pointer, reflect.Interface:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return equivalent(a.Elem(), b.Elem())
	case reflect.Struct:
		for i := 0; i < a.NumField(); i++ {
			if !equivalent(a.Field(i), b.Field(i)) {
				return false
			}
		}
		return true
	case reflect.Bool:
		return a.Bool() == b.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return a.Int() == b.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return a.Uint() == b.Uint()
	case reflect.Float32, reflect.Float64:
		return a.Float() == b.Float()
	case reflect.Complex64, reflect.Complex128:
		return a.Complex() == b.Complex()
	case reflect.String:
		return a.String() == b.String()
	default:
		if a.IsNil() || b.IsNil() {
			return a.IsNil() == b.IsNil()
		}
		return a.Pointer() == b.Pointer()
	}
}

// CanSave reports whether the draft has no known field errors
func (s *Session[T]) CanSave() bool {
	return s.active && len(s.fieldErrors) == 0
}

// Cancel ends the session. A changed draft is only dropped once confirm
// agrees; the return value reports whether the session was closed.
func (s *Session[T]) Cancel(ctx context.Context, confirm mutation.Confirmer) (bool, error) {
	if !s.active {
		return true, nil
	}
	if s.HasChanges() {
		if confirm == nil {
			return false, nil
		}
		ok, err := confirm.Confirm(ctx, DiscardPrompt)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	s.Close()
	return true, nil
}

// Close ends the session without asking, typically after a successful save
func (s *Session[T]) Close() {
	var zero T
	s.id = ""
	s.active = false
	s.draft = zero
	s.original = zero
	clear(s.fieldErrors)
	clear(s.parseErrors)
}

func (s *Session[T]) lookup(name string) (field, error) {
	if !s.active {
		return field{}, ErrNotStarted
	}
	f, ok := s.fields[name]
	if !ok {
		return field{}, fmt.Errorf("%w: %s", ErrUnknownField, name)
	}
	if s.readOnly[name] {
		return field{}, fmt.Errorf("%w: %s", ErrReadOnlyField, name)
	}
	return f, nil
}

func (s *Session[T]) changed(name string) {
	if s.recompute != nil {
		s.recompute(&s.draft)
	}
	s.validateField(name)
}

func (s *Session[T]) validateField(name string) {
	f := s.fields[name]
	delete(s.fieldErrors, name)

	err := models.ValidatePartial(s.draft, f.goName)
	var verrs models.ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, ve := range verrs {
		if ve.Field == name {
			s.fieldErrors[name] = ve.Message
			return
		}
	}
}

// assign writes raw into v. A non-empty message is a user input problem;
// an error means the field kind cannot be set from text at all.
func assign(v reflect.Value, f field, raw string) (string, error) {
	raw = strings.TrimSpace(raw)

	if f.ptr {
		if raw == "" {
			v.Set(reflect.Zero(v.Type()))
			return "", nil
		}
		target := reflect.New(v.Type().Elem())
		msg, err := assign(target.Elem(), field{kind: f.kind}, raw)
		if msg != "" || err != nil {
			return msg, err
		}
		v.Set(target)
		return "", nil
	}

	switch f.kind {
	case reflect.String:
		v.SetString(raw)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return "must be a whole number", nil
		}
		v.SetInt(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return "must be a number", nil
		}
		v.SetFloat(n)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return "must be true or false", nil
		}
		v.SetBool(b)
	default:
		return "", ErrUnsupportedField
	}
	return "", nil
}

func clone[T any](v T) T {
	if c, ok := any(v).(cloner[T]); ok {
		return c.Clone()
	}
	return v
}
