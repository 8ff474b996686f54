package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"

	"github.com/festpass/festpass-api/internal/mailer"
)

const mailRequestedTopic = "mail.requested"

type MailSender interface {
	Send(ctx context.Context, input mailer.SendMailInput) error
}

// MailDispatcher decouples request handlers from SMTP: handlers publish a
// message and return; the router delivers with retries in the background.
type MailDispatcher struct {
	pubSub *gochannel.GoChannel
	router *message.Router
}

func NewMailDispatcher(sender MailSender) (*MailDispatcher, error) {
	logger := newZapLoggerAdapter()

	pubSub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, logger)

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, fmt.Errorf("message.NewRouter -> %w", err)
	}

	router.AddMiddleware(middleware.Retry{
		MaxRetries:      5,
		InitialInterval: time.Second,
		Multiplier:      2,
		MaxInterval:     30 * time.Second,
		Logger:          logger,
	}.Middleware)

	router.AddNoPublisherHandler(
		"send_mail",
		mailRequestedTopic,
		pubSub,
		func(msg *message.Message) error {
			var input mailer.SendMailInput
			if err := json.Unmarshal(msg.Payload, &input); err != nil {
				// Poison message; retrying cannot fix it.
				return nil
			}

			sendCtx, cancel := context.WithTimeout(msg.Context(), 30*time.Second)
			defer cancel()

			return sender.Send(sendCtx, input)
		},
	)

	return &MailDispatcher{
		pubSub: pubSub,
		router: router,
	}, nil
}

// Run blocks until ctx is cancelled.
func (d *MailDispatcher) Run(ctx context.Context) error {
	if err := d.router.Run(ctx); err != nil {
		return fmt.Errorf("d.router.Run -> %w", err)
	}

	return nil
}

// Running closes once the router consumes from the topic. Messages published
// before that are dropped, as gochannel has no persistence.
func (d *MailDispatcher) Running() chan struct{} {
	return d.router.Running()
}

func (d *MailDispatcher) Publish(input mailer.SendMailInput) error {
	payload, err := json.Marshal(input)
	if err != nil {
		return fmt.Errorf("json.Marshal -> %w", err)
	}

	msg := message.NewMessage(uuid.NewString(), payload)
	if err = d.pubSub.Publish(mailRequestedTopic, msg); err != nil {
		return fmt.Errorf("d.pubSub.Publish -> %w", err)
	}

	return nil
}
