package shell

import (
	"github.com/abiosoft/ishell"

	"ideahub/internal/session"
)

func (s *Shell) authCommands() []*ishell.Cmd {
	return []*ishell.Cmd{
		{
			Name: "login",
			Help: "log in with email and password",
			Func: s.cmdLogin,
		},
		{
			Name: "register",
			Help: "create a new account",
			Func: s.cmdRegister,
		},
		{
			Name: "logout",
			Help: "clear the stored session",
			Func: s.cmdLogout,
		},
		{
			Name: "whoami",
			Help: "show the logged-in user",
			Func: s.cmdWhoami,
		},
		{
			Name: "profile",
			Help: "edit your name, department or password",
			Func: s.cmdProfile,
		},
	}
}

func (s *Shell) cmdLogin(c *ishell.Context) {
	c.Print("email: ")
	email := c.ReadLine()
	c.Print("password: ")
	password := c.ReadPassword()

	ctx, cancel := s.commandContext()
	defer cancel()

	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		printErr(c, err)
		return
	}

	err = s.store.Save(&session.Session{
		Token:       result.Token,
		UserID:      result.UserID,
		UserName:    result.Name,
		IsModerator: result.IsModerator,
		IsAdmin:     result.IsAdmin,
	})
	if err != nil {
		printErr(c, err)
		return
	}
	c.Printf("welcome, %s!\n", result.Name)
}

func (s *Shell) cmdRegister(c *ishell.Context) {
	c.Print("name: ")
	name := c.ReadLine()
	c.Print("email: ")
	email := c.ReadLine()
	c.Print("department: ")
	department := c.ReadLine()
	c.Print("password: ")
	password := c.ReadPassword()
	c.Print("confirm password: ")
	confirm := c.ReadPassword()

	if password != confirm {
		c.Println("passwords do not match")
		return
	}

	ctx, cancel := s.commandContext()
	defer cancel()

	if err := s.client.Register(ctx, name, email, password, department); err != nil {
		printErr(c, err)
		return
	}
	c.Println("account created, you can now 'login'")
}

func (s *Shell) cmdLogout(c *ishell.Context) {
	if err := s.store.Clear(); err != nil {
		printErr(c, err)
		return
	}
	s.view = nil
	c.Println("logged out")
}

func (s *Shell) cmdWhoami(c *ishell.Context) {
	current := s.requireSession(c)
	if current == nil {
		return
	}
	c.Printf("%s (id %s)", current.UserName, current.UserID)
	if current.IsAdmin {
		c.Print(", admin")
	}
	if current.IsModerator {
		c.Print(", moderator")
	}
	c.Println()
}

func (s *Shell) cmdProfile(c *ishell.Context) {
	current := s.requireSession(c)
	if current == nil {
		return
	}

	ctx, cancel := s.commandContext()
	user, err := s.client.GetUser(ctx, current.UserID)
	cancel()
	if err != nil {
		printErr(c, err)
		return
	}

	c.Printf("name [%s]: ", user.Name)
	name := c.ReadLine()
	if name == "" {
		name = user.Name
	}
	c.Printf("department [%s]: ", user.Department)
	department := c.ReadLine()
	if department == "" {
		department = user.Department
	}
	c.Print("new password (blank to keep): ")
	password := c.ReadPassword()

	// The prompts take as long as the user takes; the submit gets its own
	// deadline.
	ctx, cancel = s.commandContext()
	defer cancel()

	if err := s.client.UpdateProfile(ctx, current.UserID, name, department, password); err != nil {
		printErr(c, err)
		return
	}

	// Keep the stored display name in sync, as the web client did.
	current.UserName = name
	if err := s.store.Save(current); err != nil {
		printErr(c, err)
		return
	}
	c.Println("profile updated")
}
