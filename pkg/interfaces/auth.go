package interfaces

import "context"

// CodeSender delivers verification codes to the user (email, chat, ...).
type CodeSender interface {
	SendCode(ctx context.Context, email, code string) error
}
