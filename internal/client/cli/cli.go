package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/nethra/sentinel/internal/client/auth"
	"github.com/nethra/sentinel/internal/client/iocli"
	"github.com/nethra/sentinel/internal/client/session"
	"github.com/nethra/sentinel/pkg/api"
)

// Sessions описывает операции сервиса сессии, нужные командам
type Sessions interface {
	Register(ctx context.Context, name, email, password string, rememberMe bool) (*session.User, error)
	Login(ctx context.Context, email, password string, rememberMe bool) (*session.User, error)
	Logout(ctx context.Context) error
	IsAuthenticated() bool
	CurrentUser() (session.User, bool)
	Profile(ctx context.Context) (*api.ProfileResponse, error)
	UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*api.ProfileResponse, error)
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

var _ Sessions = (*auth.Service)(nil)

// ErrUnknownCommand возвращается для нераспознанной команды
var ErrUnknownCommand = errors.New("unknown command")

type Cli struct {
	io       iocli.IO
	sessions Sessions
}

func New(io iocli.IO, sessions Sessions) *Cli {
	return &Cli{
		io:       io,
		sessions: sessions,
	}
}

// Run выполняет команду. Неизвестная команда — ошибка, usage печатает main
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx, args)
	case "login":
		return c.runLogin(ctx, args)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "whoami":
		return c.runWhoami(ctx)
	case "update":
		return c.runUpdate(ctx)
	case "passwd":
		return c.runPasswd(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, command)
	}
}

func PrintUsage(io iocli.IO) {
	io.Println("Sentinel Client")
	io.Println()
	io.Println("Usage:")
	io.Println("  sentinel [OPTIONS] COMMAND")
	io.Println()
	io.Println("Options:")
	io.Println("  --version      Show version information")
	io.Println("  --server URL   Server URL (default: http://localhost:8080)")
	io.Println("  --db PATH      Path to local session database (default: sentinel-client.db)")
	io.Println()
	io.Println("Commands:")
	io.Println("  register [--remember]   Register new account and sign in")
	io.Println("  login [--remember]      Sign in to server")
	io.Println("  logout                  Drop the local session")
	io.Println("  status                  Show authentication status")
	io.Println("  whoami                  Show the current profile from the server")
	io.Println("  update                  Update profile fields")
	io.Println("  passwd                  Change account password")
	io.Println()
	io.Println("Examples:")
	io.Println("  sentinel register")
	io.Println("  sentinel login --remember")
	io.Println("  sentinel --server https://example.com whoami")
}
