package services_test

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"casino-minigames/internal/models"
	"casino-minigames/internal/services"
)

func newAuth(t *testing.T) *services.AuthService {
	t.Helper()
	auth, err := services.NewAuthService(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewAuthService: %v", err)
	}
	return auth
}

func TestDemoLogin(t *testing.T) {
	auth := newAuth(t)

	tests := []struct {
		name     string
		email    string
		password string
		ok       bool
		role     models.Role
		premium  bool
		balance  string
		username string
	}{
		{"admin", services.DemoAdminEmail, services.DemoAdminPassword, true, models.RoleAdmin, true, "10000", "Admin"},
		{"user", services.DemoUserEmail, services.DemoUserPassword, true, models.RoleUser, false, "1000", "Jugador"},
		{"email is case insensitive", "  USER@animecasino.com ", services.DemoUserPassword, true, models.RoleUser, false, "1000", "Jugador"},
		{"wrong password", services.DemoUserEmail, "admin", false, "", false, "", ""},
		{"unknown email", "nobody@animecasino.com", "user", false, "", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, ok := auth.Login(tt.email, tt.password)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if user.Role != tt.role || user.IsPremium != tt.premium || user.Username != tt.username {
				t.Errorf("user = %+v", user)
			}
			if !user.Balance.Equal(dec(tt.balance)) {
				t.Errorf("balance = %s, want %s", user.Balance, tt.balance)
			}
		})
	}
}

func TestRegister(t *testing.T) {
	auth := newAuth(t)

	admin, ok := auth.Register(models.RegisterRequest{Username: "boss", Email: "boss@x.io", Password: "pw", Role: models.RoleAdmin})
	if !ok {
		t.Fatal("register admin failed")
	}
	if !admin.IsPremium || !admin.Balance.Equal(dec("5000")) {
		t.Errorf("admin = %+v", admin)
	}

	player, ok := auth.Register(models.RegisterRequest{Username: "p", Email: "p@x.io", Password: "pw"})
	if !ok {
		t.Fatal("register user failed")
	}
	if player.Role != models.RoleUser || player.IsPremium || !player.Balance.Equal(dec("1000")) {
		t.Errorf("player = %+v", player)
	}

	if _, ok := auth.Login("p@x.io", "pw"); !ok {
		t.Error("cannot log in as registered user")
	}

	again, ok := auth.Register(models.RegisterRequest{Username: "p2", Email: "p@x.io", Password: "new"})
	if !ok {
		t.Fatal("re-register failed")
	}
	if _, ok := auth.Login("p@x.io", "pw"); ok {
		t.Error("old password still works after re-register")
	}
	if _, err := auth.GetUser(player.ID); !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("replaced account still reachable: %v", err)
	}
	if u, err := auth.GetUser(again.ID); err != nil || u.Username != "p2" {
		t.Errorf("GetUser = %+v, %v", u, err)
	}
}

func TestUpgradeAndBalance(t *testing.T) {
	auth := newAuth(t)
	user, _ := auth.Login(services.DemoUserEmail, services.DemoUserPassword)

	up, err := auth.UpgradeToPremium(user.ID)
	if err != nil {
		t.Fatalf("UpgradeToPremium: %v", err)
	}
	if !up.IsPremium || up.Role != models.RoleAdmin {
		t.Errorf("upgraded = %+v", up)
	}

	if err := auth.SetBalance(user.ID, dec("1234.5")); err != nil {
		t.Fatalf("SetBalance: %v", err)
	}
	again, _ := auth.Login(services.DemoUserEmail, services.DemoUserPassword)
	if !again.Balance.Equal(dec("1234.5")) {
		t.Errorf("balance = %s", again.Balance)
	}

	if _, err := auth.UpgradeToPremium("missing"); !errors.Is(err, services.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
