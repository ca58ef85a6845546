package auth

import "context"

// Store is the credential record collaborator. Username and email
// uniqueness is enforced by the backing store; Insert must report a
// violation as ErrAlreadyExists so concurrent registrations for the same
// name resolve deterministically even when both pass the pre-check.
type Store interface {
	FindByUsername(ctx context.Context, username string) (*Credential, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	Insert(ctx context.Context, c *Credential) error
	IsEmpty(ctx context.Context) (bool, error)
}
