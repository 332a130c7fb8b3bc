package main

import (
	"flag"
	"log/slog"
	"os"

	"inkwell/auth"
	"inkwell/crud"
	"inkwell/domain"
	"inkwell/errs"
	"inkwell/http"
)

// main is the app's entry point.
func main() {
	// Check if the flag "-prod" has been provided. It means that we're running in production.
	productionBool := flag.Bool("prod", false, "Provide this flag in production to ensure that a .config.json file is provided before the application starts.")
	flag.Parse()

	// Load configuration from a .config.json file if present, otherwise use the default dev setup.
	config := LoadConfig(*productionBool)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	// Open a database connection and execute migrations.
	db := NewDB(config.Database.ConnectionInfo())
	err := Open(db, config.IsProd())
	must(err)
	defer Close(db)
	err = AutoMigrate(db)
	must(err)

	// Start the crud services.
	services, err := crud.NewServices(
		db.Gorm,
		crud.WithUser(config.Pepper),
		crud.WithPost(),
		crud.WithComment(),
		crud.WithLike(),
		crud.WithFollow(),
	)
	must(err)

	// Make sure the configured admin account exists.
	err = ensureAdmin(services.User, config.Admin)
	must(err)

	// The authority signs and verifies all session credentials with the
	// process-wide secret. Nothing about a session is stored server-side.
	authority := auth.NewAuthority(config.TokenSecret)

	// Set up a webserver.
	server := http.NewServer(authority, config.TokenTTL(), logger, http.Services{
		User:    services.User,
		Post:    services.Post,
		Comment: services.Comment,
		Like:    services.Like,
		Follow:  services.Follow,
	})

	// Serve the app.
	logger.Info("listening", "port", config.Port)
	must(server.Run(config.Port))
}

// ensureAdmin creates the admin account from config on first startup.
// On later startups the account already exists and nothing happens.
func ensureAdmin(us domain.UserService, admin AdminConfig) error {
	if admin.Email == "" || admin.Password == "" {
		return nil
	}
	_, err := us.ByEmail(admin.Email)
	if err == nil {
		return nil
	}
	if errs.ErrorCode(err) != errs.ENOTFOUND {
		return err
	}
	return us.Create(&domain.User{
		Name:     admin.Name,
		Email:    admin.Email,
		Password: admin.Password,
		Role:     auth.RoleAdmin,
	})
}

// must is a little helper for shortening the panic instruction.
func must(err error) {
	if err != nil {
		panic(err)
	}
}
