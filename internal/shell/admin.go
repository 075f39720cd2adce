package shell

import (
	"github.com/abiosoft/ishell"

	"ideahub/internal/session"
)

func (s *Shell) adminCommands() []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name: "users",
			Help: "list all users (admin)",
			Func: s.cmdUsers,
		},
		{
			Name: "mod",
			Help: "mod <user-id> - toggle a user's moderator flag (admin)",
			Func: s.cmdToggleModerator,
		},
		{
			Name: "deluser",
			Help: "deluser <user-id> - remove a user (admin)",
			Func: s.cmdDeleteUser,
		},
	}
}

func (s *Shell) requireAdmin(c *ishell.Context) *session.Session {
	current := s.requireSession(c)
	if current == nil {
		return nil
	}
	if !current.IsAdmin {
		c.Println("access denied: admin only")
		return nil
	}
	return current
}

func (s *Shell) cmdUsers(c *ishell.Context) {
	if s.requireAdmin(c) == nil {
		return
	}

	ctx, cancel := s.commandContext()
	defer cancel()

	users, err := s.client.ListUsers(ctx)
	if err != nil {
		printErr(c, err)
		return
	}
	for _, user := range users {
		role := ""
		if user.IsModerator {
			role = " [moderator]"
		}
		c.Printf("%s  %s <%s> %s%s\n", user.ID, user.Name, user.Email, user.Department, role)
	}
}

func (s *Shell) cmdToggleModerator(c *ishell.Context) {
	if s.requireAdmin(c) == nil {
		return
	}
	if len(c.Args) != 1 {
		c.Println("usage: mod <user-id>")
		return
	}

	ctx, cancel := s.commandContext()
	defer cancel()

	if err := s.client.ToggleModerator(ctx, c.Args[0]); err != nil {
		printErr(c, err)
		return
	}
	c.Println("moderator flag toggled")
}

func (s *Shell) cmdDeleteUser(c *ishell.Context) {
	if s.requireAdmin(c) == nil {
		return
	}
	if len(c.Args) != 1 {
		c.Println("usage: deluser <user-id>")
		return
	}
	if !confirm(c, "really delete user "+c.Args[0]+"?") {
		c.Println("kept")
		return
	}

	ctx, cancel := s.commandContext()
	defer cancel()

	if err := s.client.DeleteUser(ctx, c.Args[0]); err != nil {
		printErr(c, err)
		return
	}
	c.Println("user removed")
}
