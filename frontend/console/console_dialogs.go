package console

import (
	"errors"
	"strings"
	"sync"

	"adminconsole/infrastructure/mutation"
	"adminconsole/models"
)

var (
	ErrDialogBusy   = errors.New("a request is in flight")
	ErrDialogClosed = errors.New("dialog is not open")
)

type DeleteState int

const (
	DeleteClosed DeleteState = iota
	DeleteConfirming
	DeleteDeleting
)

// DeleteDialog is the delete user confirmation:
// Closed -> Confirming -> Deleting -> Closed, or back to Confirming with
// the error when the request fails.
type DeleteDialog struct {
	mu     sync.Mutex
	state  DeleteState
	target models.User
	err    string
}

type DeleteDialogView struct {
	Open     bool
	Deleting bool
	Target   models.User
	Error    string
}

// Open targets u. Any previous error is cleared.
func (d *DeleteDialog) Open(u models.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state == DeleteDeleting {
		return ErrDialogBusy
	}
	d.state = DeleteConfirming
	d.target = u
	d.err = ""
	return nil
}

// Begin moves Confirming to Deleting and returns the target.
func (d *DeleteDialog) Begin() (models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case DeleteConfirming:
		d.state = DeleteDeleting
		d.err = ""
		return d.target, nil
	case DeleteDeleting:
		return models.User{}, ErrDialogBusy
	default:
		return models.User{}, ErrDialogClosed
	}
}

// Finish closes the dialog on success. On failure it returns to Confirming
// with the error shown and the target kept.
func (d *DeleteDialog) Finish(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.state != DeleteDeleting {
		return
	}
	if err != nil {
		d.state = DeleteConfirming
		d.err = err.Error()
		return
	}
	d.state = DeleteClosed
	d.target = models.User{}
	d.err = ""
}

// Cancel is only allowed while confirming.
func (d *DeleteDialog) Cancel() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.state {
	case DeleteConfirming:
		d.state = DeleteClosed
		d.target = models.User{}
		d.err = ""
		return nil
	case DeleteDeleting:
		return ErrDialogBusy
	default:
		return nil
	}
}

func (d *DeleteDialog) State() DeleteState {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *DeleteDialog) View() DeleteDialogView {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DeleteDialogView{
		Open:     d.state != DeleteClosed,
		Deleting: d.state == DeleteDeleting,
		Target:   d.target,
		Error:    d.err,
	}
}

type FormState int

const (
	FormClosed FormState = iota
	FormEditing
	FormSaving
)

// RoleForm is the edit role dialog: Closed -> Editing -> Saving -> Closed,
// or back to Editing with the error and the entered values kept.
type RoleForm struct {
	mu    sync.Mutex
	state FormState
	role  models.Role
	input mutation.RoleInput
	err   string
}

type RoleFormView struct {
	Open        bool
	Saving      bool
	RoleID      string
	Name        string
	Description string
	IsDefault   bool
	Error       string
	CanSubmit   bool
}

// Open starts editing role with its current values.
func (f *RoleForm) Open(role models.Role) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == FormSaving {
		return ErrDialogBusy
	}
	f.state = FormEditing
	f.role = role
	f.input = mutation.RoleInput{Name: role.Name, Description: role.Description, IsDefault: role.IsDefault}
	f.err = ""
	return nil
}

// Begin records the submitted values and moves to Saving. An empty name
// keeps the form in Editing and never reaches the network.
func (f *RoleForm) Begin(in mutation.RoleInput) (string, mutation.RoleInput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case FormClosed:
		return "", in, ErrDialogClosed
	case FormSaving:
		return "", in, ErrDialogBusy
	}
	f.input = in
	if strings.TrimSpace(in.Name) == "" {
		verr := &mutation.ValidationError{Field: "Name", Message: "Name is required"}
		f.err = verr.Message
		return "", in, verr
	}
	f.state = FormSaving
	f.err = ""
	return f.role.ID, in, nil
}

// Finish closes the form on success or returns to Editing with err.
func (f *RoleForm) Finish(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != FormSaving {
		return
	}
	if err != nil {
		f.state = FormEditing
		f.err = err.Error()
		return
	}
	f.state = FormClosed
	f.role = models.Role{}
	f.input = mutation.RoleInput{}
	f.err = ""
}

// Cancel is only allowed while editing.
func (f *RoleForm) Cancel() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch f.state {
	case FormEditing:
		f.state = FormClosed
		f.role = models.Role{}
		f.input = mutation.RoleInput{}
		f.err = ""
		return nil
	case FormSaving:
		return ErrDialogBusy
	default:
		return nil
	}
}

func (f *RoleForm) State() FormState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *RoleForm) View() RoleFormView {
	f.mu.Lock()
	defer f.mu.Unlock()
	return RoleFormView{
		Open:        f.state != FormClosed,
		Saving:      f.state == FormSaving,
		RoleID:      f.role.ID,
		Name:        f.input.Name,
		Description: f.input.Description,
		IsDefault:   f.input.IsDefault,
		Error:       f.err,
		CanSubmit:   f.state == FormEditing && strings.TrimSpace(f.input.Name) != "",
	}
}
