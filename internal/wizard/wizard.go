// Package wizard runs the service-request form as an interactive terminal
// flow, mirroring the conditional question set of the HTTP API.
package wizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/iesm-tools/intake/internal/configtable"
	"github.com/iesm-tools/intake/internal/directory"
	"github.com/iesm-tools/intake/internal/form"
)

// Run walks the user through the full request flow and returns the assembled
// payload. The email is verified against the user sheet before any other
// question is asked.
func Run(ctx context.Context, client *directory.Client, userSheet, configSheet string) (*form.Payload, error) {
	fmt.Println("Service Request Intake")
	fmt.Println()

	ident, userRows, err := verifyEmail(ctx, client, userSheet)
	if err != nil {
		return nil, err
	}
	fmt.Printf("Welcome, %s (%s)\n\n", ident.Name, ident.Department)

	var table configtable.Table
	if entries, err := client.Fetch(ctx, configSheet); err == nil {
		table = configtable.Parse(entries)
	} else {
		fmt.Printf("Note: config sheet unavailable, using built-in options (%v)\n\n", err)
		table = configtable.Parse(nil)
	}

	m := form.NewMachine(&ident, table, directory.Locations(userRows), directory.ServiceTypes(userRows))

	if err := askRequestType(m); err != nil {
		return nil, err
	}

	switch m.Answer.RequestType {
	case form.RequestProject:
		// Master ticket; departments raise their own follow-up requests.
	default:
		if err := askScope(m); err != nil {
			return nil, err
		}
		switch m.Answer.Scope {
		case form.ScopeSingle:
			if err := askSingle(m); err != nil {
				return nil, err
			}
		case form.ScopeMultiple:
			if err := askMultiple(m); err != nil {
				return nil, err
			}
		}
		if err := askShared(m); err != nil {
			return nil, err
		}
	}

	payload, err := m.Submit()
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// verifyEmail prompts until an email matches a row in the user sheet.
func verifyEmail(ctx context.Context, client *directory.Client, userSheet string) (directory.Identity, []directory.Row, error) {
	for {
		emailPrompt := promptui.Prompt{Label: "Your official email ID"}
		email, err := emailPrompt.Run()
		if err != nil {
			return directory.Identity{}, nil, fmt.Errorf("email prompt: %w", err)
		}
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}

		entries, err := client.Fetch(ctx, userSheet)
		if err != nil {
			return directory.Identity{}, nil, fmt.Errorf("fetching %s sheet: %w", userSheet, err)
		}
		rows := directory.ObjectRows(entries)

		row, ok := directory.FindByEmail(rows, email)
		if !ok {
			fmt.Printf("Email %q not found in the %s sheet. Try again.\n", email, userSheet)
			continue
		}
		return directory.ResolveIdentity(row, email), rows, nil
	}
}

func askRequestType(m *form.Machine) error {
	choice, err := selectOne("Type of request", []string{
		string(form.RequestMaintenance),
		string(form.RequestNew),
		string(form.RequestProject),
	})
	if err != nil {
		return err
	}
	return m.SetRequestType(choice)
}

func askScope(m *form.Machine) error {
	choice, err := selectOne("Departments involved", []string{
		string(form.ScopeSingle),
		string(form.ScopeMultiple),
	})
	if err != nil {
		return err
	}
	return m.SetScope(choice)
}

func askSingle(m *form.Machine) error {
	loc, err := selectOne("Choose location", m.LocationOptions())
	if err != nil {
		return err
	}
	manual := ""
	if loc == "Other" {
		manualPrompt := promptui.Prompt{Label: "Enter location"}
		if manual, err = manualPrompt.Run(); err != nil {
			return fmt.Errorf("location prompt: %w", err)
		}
	}
	if err := m.SetLocation(loc, manual); err != nil {
		return err
	}

	n, err := askInt(fmt.Sprintf("Number of requests (1-%d)", form.MaxSubRequests), 1)
	if err != nil {
		return err
	}
	if err := m.SetSubRequestCount(n); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		fmt.Printf("\nRequest %d of %d\n", i+1, n)
		if err := askSubRequest(m, i); err != nil {
			return err
		}
	}
	return nil
}

func askSubRequest(m *form.Machine, i int) error {
	dept, err := selectOne("Service Dept", m.ServiceDeptOptions())
	if err != nil {
		return err
	}
	if err := m.UpdateSubRequest(i, form.SubRequestPatch{ServiceDept: &dept}); err != nil {
		return err
	}

	p := form.SubRequestPatch{}
	if subs := m.SubCategoryOptions(dept); len(subs) > 0 {
		sub, err := selectOne("Sub Category", subs)
		if err != nil {
			return err
		}
		p.SubCategory = &sub
	}

	desc, err := askText("Description", true)
	if err != nil {
		return err
	}
	p.Description = &desc

	if m.Answer.RequestType == form.RequestMaintenance {
		if occs := m.OccurrenceOptions(); len(occs) > 0 {
			occ, err := selectOne("Issue Occurrence", occs)
			if err != nil {
				return err
			}
			p.Occurrence = &occ
		}
	} else {
		reason, err := askText("Reason", true)
		if err != nil {
			return err
		}
		p.Reason = &reason
		challenges, err := askText("Existing Challenges", false)
		if err != nil {
			return err
		}
		p.ExistingChallenges = &challenges
	}

	attached, err := askYesNo("Attachment provided?")
	if err != nil {
		return err
	}
	p.AttachmentProvided = &attached

	return m.UpdateSubRequest(i, p)
}

func askMultiple(m *form.Machine) error {
	depts, err := selectMany("Select departments involved", m.DepartmentOptions())
	if err != nil {
		return err
	}
	if err := m.SetDepartments(depts); err != nil {
		return err
	}

	desc, err := askText("Description (single request covering all selected departments)", true)
	if err != nil {
		return err
	}
	if err := m.SetDescription(desc); err != nil {
		return err
	}

	if occs := m.OccurrenceOptions(); len(occs) > 0 {
		occ, err := selectOne("Issue Occurrence", occs)
		if err != nil {
			return err
		}
		if err := m.SetOccurrence(occ); err != nil {
			return err
		}
	}

	count, err := askInt("Number of attachments", 0)
	if err != nil {
		return err
	}
	return m.SetAttachmentCount(count)
}

func askShared(m *form.Machine) error {
	avail, err := selectOne("Availability of location/space for the work", []string{
		string(form.AvailabilityAnyDay),
		string(form.AvailabilityRestricted),
	})
	if err != nil {
		return err
	}
	details := ""
	if avail == string(form.AvailabilityRestricted) {
		if details, err = askText("Additional information about restrictions", true); err != nil {
			return err
		}
	}
	if err := m.SetAvailability(avail, details); err != nil {
		return err
	}

	prio, err := selectOne("Priority", []string{
		string(form.PriorityNormal),
		string(form.PriorityUrgent),
	})
	if err != nil {
		return err
	}
	reason := ""
	if prio == string(form.PriorityUrgent) {
		if reason, err = askText("Please state the reason for urgency", true); err != nil {
			return err
		}
	}
	if err := m.SetPriority(prio, reason); err != nil {
		return err
	}

	min := m.MinFinishDate().Format(form.DateLayout)
	for {
		date, err := askText(fmt.Sprintf("Expected date to finish (YYYY-MM-DD, on or after %s)", min), true)
		if err != nil {
			return err
		}
		if err := m.SetFinishDate(date); err != nil {
			fmt.Println(err)
			continue
		}
		break
	}

	available, err := askYesNo("Is Budget Code Available?")
	if err != nil {
		return err
	}
	info := form.BudgetInfo{}
	if available {
		if info.BookOfAccounts, err = askText("Book of Accounts", false); err != nil {
			return err
		}
		if info.BudgetCode, err = askText("Budget Code", false); err != nil {
			return err
		}
		if info.UtilizationDate, err = askText("Utilization Date", false); err != nil {
			return err
		}
		if info.EntityName, err = askText("Entity Name", false); err != nil {
			return err
		}
	}
	return m.SetBudget(available, info)
}

func selectOne(label string, items []string) (string, error) {
	sel := promptui.Select{Label: label, Items: items}
	_, choice, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", label, err)
	}
	return choice, nil
}

// selectMany emulates a multi-select with a repeated single select and a
// Done sentinel.
func selectMany(label string, items []string) ([]string, error) {
	var chosen []string
	remaining := append([]string(nil), items...)
	for len(remaining) > 0 {
		opts := append([]string{"(done)"}, remaining...)
		idx, choice, err := (&promptui.Select{Label: label, Items: opts}).Run()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		if idx == 0 {
			break
		}
		chosen = append(chosen, choice)
		remaining = append(remaining[:idx-1], remaining[idx:]...)
	}
	return chosen, nil
}

func askText(label string, required bool) (string, error) {
	p := promptui.Prompt{Label: label}
	if required {
		p.Validate = func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("required")
			}
			return nil
		}
	}
	v, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("%s: %w", label, err)
	}
	return v, nil
}

func askInt(label string, def int) (int, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(def),
		Validate: func(s string) error {
			_, err := strconv.Atoi(strings.TrimSpace(s))
			return err
		},
	}
	v, err := p.Run()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	return n, nil
}

func askYesNo(label string) (bool, error) {
	choice, err := selectOne(label, []string{"No", "Yes"})
	if err != nil {
		return false, err
	}
	return choice == "Yes", nil
}
