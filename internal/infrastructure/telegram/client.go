package telegram

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	tdsession "github.com/gotd/td/session"
	tdclient "github.com/gotd/td/telegram"
	tdauth "github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/tg"
	"github.com/GuilhermeKalleu19/api-telegram/internal/config"
)

// Tagged sentinels for the sign-in and delivery branches. Callers discriminate
// with errors.Is instead of parsing transport messages.
var (
	ErrPasswordNeeded  = errors.New("two-factor password required")
	ErrInvalidPassword = errors.New("invalid two-factor password")
	ErrSessionExpired  = errors.New("telegram session expired")
)

// SentCode is the result of requesting a login code. SessionSnapshot is the
// connection state right after the code request; the code must be redeemed
// against the entry point that issued it, so login-finish restores the client
// from this exact snapshot.
type SentCode struct {
	PhoneCodeHash   string
	SessionSnapshot []byte
}

// SignInInput carries everything needed to redeem a login code.
type SignInInput struct {
	Phone           string
	Code            string
	CodeHash        string
	Password        string
	SessionSnapshot []byte
}

// AlertMessage is one emergency alert: a text followed by a geo point,
// both addressed to the same contact.
type AlertMessage struct {
	To        string
	Text      string
	Latitude  float64
	Longitude float64
}

// Messenger is the transport contract the rest of the service depends on.
// Every call is one full connect/operate/disconnect cycle.
type Messenger interface {
	SendCode(ctx context.Context, phone string) (*SentCode, error)
	SignIn(ctx context.Context, in SignInInput) (session []byte, err error)
	Deliver(ctx context.Context, session []byte, msg AlertMessage) error
	CheckSession(ctx context.Context, session []byte) (bool, error)
}

// Client implements Messenger over MTProto using the application identity
// from the config.
type Client struct {
	apiID   int
	apiHash string
	timeout time.Duration
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiID:   cfg.TelegramAPIID,
		apiHash: cfg.TelegramAPIHash,
		timeout: time.Duration(cfg.TelegramTimeoutSeconds) * time.Second,
	}
}

// run executes fn inside one client lifecycle. The connection is established
// from the given session bytes (or empty for a fresh unauthenticated session)
// and always torn down when fn returns, success or failure. The returned bytes
// are the session state after fn ran.
func (c *Client) run(ctx context.Context, sess []byte, fn func(ctx context.Context, client *tdclient.Client) error) ([]byte, error) {
	storage := &tdsession.StorageMemory{}
	if len(sess) > 0 {
		if err := storage.StoreSession(ctx, sess); err != nil {
			return nil, fmt.Errorf("restore session: %w", err)
		}
	}

	client := tdclient.NewClient(c.apiID, c.apiHash, tdclient.Options{
		SessionStorage: storage,
	})

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := client.Run(ctx, func(ctx context.Context) error {
		return fn(ctx, client)
	}); err != nil {
		return nil, err
	}

	out, err := storage.LoadSession(ctx)
	if errors.Is(err, tdsession.ErrNotFound) {
		return nil, nil
	}
	return out, err
}

func (c *Client) SendCode(ctx context.Context, phone string) (*SentCode, error) {
	var hash string
	snapshot, err := c.run(ctx, nil, func(ctx context.Context, client *tdclient.Client) error {
		code, err := client.Auth().SendCode(ctx, phone, tdauth.SendCodeOptions{})
		if err != nil {
			return err
		}
		sent, ok := code.(*tg.AuthSentCode)
		if !ok {
			return fmt.Errorf("unexpected send code response %T", code)
		}
		hash = sent.PhoneCodeHash
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &SentCode{PhoneCodeHash: hash, SessionSnapshot: snapshot}, nil
}

func (c *Client) SignIn(ctx context.Context, in SignInInput) ([]byte, error) {
	return c.run(ctx, in.SessionSnapshot, func(ctx context.Context, client *tdclient.Client) error {
		_, err := client.Auth().SignIn(ctx, in.Phone, in.Code, in.CodeHash)
		if err == nil {
			return nil
		}
		if !errors.Is(err, tdauth.ErrPasswordAuthNeeded) {
			return err
		}
		if in.Password == "" {
			return ErrPasswordNeeded
		}
		if _, err := client.Auth().Password(ctx, in.Password); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPassword, err)
		}
		return nil
	})
}

func (c *Client) Deliver(ctx context.Context, sess []byte, msg AlertMessage) error {
	_, err := c.run(ctx, sess, func(ctx context.Context, client *tdclient.Client) error {
		status, err := client.Auth().Status(ctx)
		if err != nil {
			return err
		}
		if !status.Authorized {
			return ErrSessionExpired
		}

		api := client.API()
		peer, err := resolveContact(ctx, api, msg.To)
		if err != nil {
			return err
		}

		// Text first, then location. The first failure aborts the whole alert.
		if _, err := api.MessagesSendMessage(ctx, &tg.MessagesSendMessageRequest{
			Peer:     peer,
			Message:  msg.Text,
			RandomID: randomID(),
		}); err != nil {
			return fmt.Errorf("send message: %w", err)
		}
		if _, err := api.MessagesSendMedia(ctx, &tg.MessagesSendMediaRequest{
			Peer: peer,
			Media: &tg.InputMediaGeoPoint{
				GeoPoint: &tg.InputGeoPoint{Lat: msg.Latitude, Long: msg.Longitude},
			},
			RandomID: randomID(),
		}); err != nil {
			return fmt.Errorf("send location: %w", err)
		}
		return nil
	})
	return err
}

func (c *Client) CheckSession(ctx context.Context, sess []byte) (bool, error) {
	if len(sess) == 0 {
		return false, nil
	}
	authorized := false
	_, err := c.run(ctx, sess, func(ctx context.Context, client *tdclient.Client) error {
		status, err := client.Auth().Status(ctx)
		if err != nil {
			return err
		}
		authorized = status.Authorized
		return nil
	})
	return authorized, err
}

// resolveContact turns a phone number into an input peer for sending.
func resolveContact(ctx context.Context, api *tg.Client, phone string) (tg.InputPeerClass, error) {
	resolved, err := api.ContactsResolvePhone(ctx, phone)
	if err != nil {
		return nil, fmt.Errorf("resolve contact %s: %w", phone, err)
	}
	peerUser, ok := resolved.Peer.(*tg.PeerUser)
	if !ok {
		return nil, fmt.Errorf("contact %s resolved to %T, expected a user", phone, resolved.Peer)
	}
	for _, u := range resolved.Users {
		if user, ok := u.(*tg.User); ok && user.ID == peerUser.UserID {
			return user.AsInputPeer(), nil
		}
	}
	return nil, fmt.Errorf("contact %s: resolved peer missing from response", phone)
}

func randomID() int64 {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return int64(binary.LittleEndian.Uint64(b[:]))
}
