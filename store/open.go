package store

import (
	"combinaapi/config"
	"combinaapi/dbhelper"
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Open builds the user store selected by STORE_BACKEND.
func Open(ctx context.Context, cfg *config.Config) (UserStore, error) {
	switch cfg.StoreBackend {
	case "firestore":
		var opts []option.ClientOption
		if cfg.FirebaseCredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.FirebaseCredentialsFile))
		}
		app, err := firebase.NewApp(ctx, nil, opts...)
		if err != nil {
			return nil, fmt.Errorf("error initializing firebase app: %w", err)
		}
		return NewFirestoreUserStore(ctx, app)
	case "postgres":
		return NewGormUserStore(dbhelper.Open(cfg.PostgresDSN())), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
