package intake

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/iesm-tools/intake/internal/configtable"
	"github.com/iesm-tools/intake/internal/directory"
	"github.com/iesm-tools/intake/internal/form"
)

// Service drives intake sessions: it resolves identities against the user
// sheet, rebuilds the form machine per interaction from cached directory
// data, and persists the answer document after each transition.
type Service struct {
	store       *Store
	client      *directory.Client
	userSheet   string
	configSheet string
}

// NewService creates a Service.
func NewService(store *Store, client *directory.Client, userSheet, configSheet string) *Service {
	return &Service{
		store:       store,
		client:      client,
		userSheet:   userSheet,
		configSheet: configSheet,
	}
}

// Create starts a new session.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	return s.store.Create(ctx)
}

// Get returns a session by ID.
func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

// Verify resolves the given email against the user sheet. Fetch failures
// surface as classified directory errors; an unmatched email clears any
// previous identity and reports KindNotFound, which is a normal outcome
// distinct from a fetch failure.
func (s *Service) Verify(ctx context.Context, id, email string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	norm := strings.ToLower(strings.TrimSpace(email))
	if norm == "" {
		return nil, fmt.Errorf("email is required")
	}

	entries, err := s.client.Fetch(ctx, s.userSheet)
	if err != nil {
		return nil, err
	}

	row, ok := directory.FindByEmail(directory.ObjectRows(entries), norm)
	if !ok {
		sess.Identity = nil
		if err := s.store.Save(ctx, sess); err != nil {
			return nil, err
		}
		return nil, &directory.Error{
			Kind:    directory.KindNotFound,
			Message: fmt.Sprintf("email %q not found in the %s sheet", norm, s.userSheet),
		}
	}

	ident := directory.ResolveIdentity(row, norm)
	sess.Identity = &ident
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// machineFor rebuilds the form machine for a session. Option sources
// degrade gracefully: a failed fetch leaves the machine on its built-in
// fallback lists rather than blocking the interaction.
func (s *Service) machineFor(ctx context.Context, sess *Session) *form.Machine {
	var userRows []directory.Row
	if entries, err := s.client.Fetch(ctx, s.userSheet); err == nil {
		userRows = directory.ObjectRows(entries)
	} else {
		log.Printf("intake: user sheet unavailable, using fallback options: %v", err)
	}

	var table configtable.Table
	if entries, err := s.client.Fetch(ctx, s.configSheet); err == nil {
		table = configtable.Parse(entries)
	} else {
		log.Printf("intake: config sheet unavailable, using fallback options: %v", err)
		table = configtable.Parse(nil)
	}

	m := form.NewMachine(sess.Identity, table, directory.Locations(userRows), directory.ServiceTypes(userRows))
	m.Answer = sess.Answer
	return m
}

// View returns the current form snapshot for a session.
func (s *Service) View(ctx context.Context, id string) (form.View, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return form.View{}, err
	}
	return s.machineFor(ctx, sess).View(), nil
}

// Apply runs an answer patch through the session's machine and persists the
// resulting state. A rejected field leaves the stored state at the last
// valid point reached.
func (s *Service) Apply(ctx context.Context, id string, patch form.Patch) (form.View, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return form.View{}, err
	}
	if sess.Identity == nil {
		return form.View{}, fmt.Errorf("verify your email before answering")
	}
	if sess.Answer.Submitted {
		return form.View{}, fmt.Errorf("session already submitted")
	}

	m := s.machineFor(ctx, sess)
	applyErr := m.Apply(patch)

	sess.Answer = m.Answer
	if err := s.store.Save(ctx, sess); err != nil {
		return form.View{}, err
	}
	if applyErr != nil {
		return m.View(), applyErr
	}
	return m.View(), nil
}

// Options returns the current option list for a selection field. The
// sub_category field additionally needs the chosen service department.
func (s *Service) Options(ctx context.Context, id, field, dept string) ([]string, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	m := s.machineFor(ctx, sess)

	switch field {
	case "request_type":
		return []string{string(form.RequestMaintenance), string(form.RequestNew), string(form.RequestProject)}, nil
	case "department_scope":
		return []string{string(form.ScopeSingle), string(form.ScopeMultiple)}, nil
	case "location":
		return m.LocationOptions(), nil
	case "service_dept":
		return m.ServiceDeptOptions(), nil
	case "sub_category":
		if dept == "" {
			return nil, fmt.Errorf("sub_category options need a dept parameter")
		}
		return m.SubCategoryOptions(dept), nil
	case "occurrence":
		return m.OccurrenceOptions(), nil
	case "departments":
		return m.DepartmentOptions(), nil
	case "availability":
		return []string{string(form.AvailabilityAnyDay), string(form.AvailabilityRestricted)}, nil
	case "priority":
		return []string{string(form.PriorityNormal), string(form.PriorityUrgent)}, nil
	default:
		return nil, fmt.Errorf("unknown option field %q", field)
	}
}

// Submit validates the session and assembles the final payload. Delivery
// to a ticketing backend is the caller's responsibility.
func (s *Service) Submit(ctx context.Context, id string) (*form.Payload, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	m := s.machineFor(ctx, sess)
	payload, err := m.Submit()
	if err != nil {
		return nil, err
	}

	sess.Answer = m.Answer
	if err := s.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	return payload, nil
}
