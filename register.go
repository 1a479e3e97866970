package adminauth

import (
	"context"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

type RegisterUserMessage struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate checks the payload against the account rules.
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Username,
			validation.Required,
			validation.Length(3, 20),
			validation.Match(usernamePattern).Error("must contain only letters, digits, and underscores"),
		),
		validation.Field(&e.Password,
			validation.Required,
			validation.Length(6, 0),
		),
		validation.Field(&e.Role,
			validation.In(RoleEditor, RoleAdmin),
		),
	)
}

// RegisterUserHandler creates accounts against the identity store.
type RegisterUserHandler struct {
	identities *IdentityStore
	activity   ActivitySink
	logger     Logger
}

// NewRegisterUserHandler creates a registration handler.
func NewRegisterUserHandler(identities *IdentityStore) *RegisterUserHandler {
	return &RegisterUserHandler{
		identities: identities,
		activity:   noopActivitySink{},
		logger:     defLogger{},
	}
}

// WithLogger sets the logger.
func (h *RegisterUserHandler) WithLogger(logger Logger) *RegisterUserHandler {
	if logger != nil {
		h.logger = logger
	}
	return h
}

// WithActivitySink sets the audit sink.
func (h *RegisterUserHandler) WithActivitySink(sink ActivitySink) *RegisterUserHandler {
	h.activity = normalizeActivitySink(sink)
	return h
}

// Execute validates the message and persists the account. A requested
// admin role is silently downgraded to editor unless the username is
// allow-listed.
func (h *RegisterUserHandler) Execute(ctx context.Context, event RegisterUserMessage) (*UserRecord, error) {
	select {
	case <-ctx.Done():
		return nil, goerrors.Wrap(
			ctx.Err(),
			goerrors.CategoryOperation,
			"context cancelled during user registration",
		)
	default:
		return h.execute(ctx, event)
	}
}

func (h *RegisterUserHandler) execute(ctx context.Context, event RegisterUserMessage) (*UserRecord, error) {
	if err := event.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid registration payload").
			WithTextCode("INVALID_PAYLOAD").
			WithCode(goerrors.CodeBadRequest)
	}

	hash, err := HashPassword(event.Password)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &UserRecord{
		Username:       event.Username,
		HashedPassword: hash,
		Role:           h.identities.Allowlist().ResolveRole(event.Username, event.Role),
		CreatedAt:      timeNow().UTC(),
	}

	if err := h.identities.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	h.recordActivity(ctx, user)

	return user, nil
}

func (h *RegisterUserHandler) recordActivity(ctx context.Context, user *UserRecord) {
	event := ActivityEvent{
		EventType:  ActivityEventUserRegistered,
		Actor:      ActorRef{Username: user.Username},
		Username:   user.Username,
		Metadata:   map[string]any{"role": user.Role},
		OccurredAt: timeNow(),
	}
	if err := h.activity.Record(ctx, event); err != nil {
		h.logger.Warn("RegisterUserHandler failed to record activity", "error", err)
	}
}
