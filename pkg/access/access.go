// Package access holds the authorization decision logic for the API.
//
// Decisions are made over the (caller, action, resource) triple only.
// Row-level ownership of patients and mappings is not decided here: the
// repositories scope every patient query by owner, so an unowned row is
// indistinguishable from an absent one.
package access

import "github.com/notSure-ded/healthCare/pkg/types"

// Action is the kind of operation a caller requests
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Resource is the kind of object a caller targets
type Resource string

const (
	ResourcePatient Resource = "patient"
	ResourceDoctor  Resource = "doctor"
	ResourceMapping Resource = "mapping"
)

// Decide returns whether the caller may perform the action on the
// resource kind. An unauthenticated or inactive caller is denied for
// every action.
func Decide(caller *types.UserClaims, action Action, resource Resource) bool {
	if caller == nil || !caller.IsActive {
		return false
	}

	// Reads are allowed for any authenticated caller.
	if action == ActionRead {
		return true
	}

	// Writes on doctor records require the staff flag.
	if resource == ResourceDoctor {
		return caller.IsStaff
	}

	// Writes on patients and mappings are allowed here; ownership of the
	// referenced patient is enforced by the scoped repository queries.
	return true
}
