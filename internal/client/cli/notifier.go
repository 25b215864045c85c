package cli

import "github.com/iudanet/gophboard/internal/client/iocli"

// notifier показывает побочные эффекты хуков в терминале
type notifier struct {
	io iocli.IO
}

func (n *notifier) RedirectToLogin() {
	n.io.Println("Session is not valid. Run 'gophboard login' to sign in.")
}

func (n *notifier) Notice(msg string) {
	n.io.Printf("Notice: %s\n", msg)
}
