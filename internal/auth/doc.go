// Package auth implements the account operations behind the register and login forms.
//
// LocalProvider registers users with a hashed password and authenticates them by email and
// password against a store.Store. Unknown emails and wrong passwords both surface as
// ErrInvalidCredentials to the caller, the concrete reason stays available through errors.Is
// for logging. Store and hash failures are plain errors.
//
// Example usage:
//
//	provider := auth.NewLocalProvider(users, h)
//
//	user, err := provider.Register(ctx, auth.RegisterInput{
//	    FirstName: "Ada",
//	    LastName:  "Lovelace",
//	    Email:     "ada@example.com",
//	    Password:  "s3cr3t",
//	})
//
//	user, err = provider.Authenticate(ctx, "ada@example.com", "s3cr3t")
package auth
