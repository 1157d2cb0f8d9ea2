// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package cloud provides components for interacting with Google Cloud services.
// This file defines a generic, reusable Pub/Sub message listener. Receiving
// messages from a subscription is abstracted here; the actual processing is
// delegated to an attached cor.Command, so the same listener drives any
// workflow.
//
// Logic Flow:
//  1. A PubSubListener is created with a client and a subscription ID.
//  2. A Command (usually a whole workflow chain) is attached.
//  3. Listen starts a background goroutine that waits for messages.
//  4. Each message is handed to the command inside a fresh cor.Context,
//     which is closed afterwards so the run's temp files are removed.
//  5. The message is acknowledged only if the command completes without
//     errors; otherwise it is redelivered per the subscription's policy.
//
// Structs:
//   - PubSubListener: Binds a subscription to the command that processes its messages.
//
// Functions:
//   - NewPubSubListener: Constructor for creating a new PubSubListener.
//   - SetCommand: Attaches a processing command to the listener.
//   - Listen: Starts the background receive loop.
package cloud

import (
	"context"
	"log"

	"cloud.google.com/go/pubsub"
	"github.com/snsvideo/gcp-go-clip-engine/internal/core/cor"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// PubSubListener encapsulates the pieces needed to listen to one Pub/Sub
// subscription and hand each message to a processing command. Listeners have
// a life cycle independent of individual API requests, which is why they
// live in the cloud package rather than the API layer.
type PubSubListener struct {
	client       *pubsub.Client       // The client for interacting with the Pub/Sub service.
	subscription *pubsub.Subscription // The subscription this listener pulls messages from.
	command      cor.Command          // The command executed for each received message.
}

// NewPubSubListener creates a listener bound to a subscription ID. The
// command may be nil at construction time and attached later once the
// workflow chain is assembled.
//
// Inputs:
//   - pubsubClient: An authenticated *pubsub.Client.
//   - subscriptionID: The string ID of the subscription.
//   - command: The cor.Command to run per message, or nil.
//
// Outputs:
//   - *PubSubListener: The configured listener.
//   - error: Reserved for future construction failures; currently always nil.
func NewPubSubListener(
	pubsubClient *pubsub.Client,
	subscriptionID string,
	command cor.Command,
) (cmd *PubSubListener, err error) {
	sub := pubsubClient.Subscription(subscriptionID)

	cmd = &PubSubListener{
		client:       pubsubClient,
		subscription: sub,
		command:      command,
	}
	return cmd, nil
}

// SetCommand attaches a command to the listener. It only sets the command if
// none is attached yet, so an initial configuration is never overwritten.
//
// Inputs:
//   - command: The cor.Command to execute when a message is received.
func (m *PubSubListener) SetCommand(command cor.Command) {
	if m.command == nil {
		m.command = command
	}
}

// process runs the attached command against one message payload and reports
// whether the message should be acknowledged. Each payload gets a fresh
// chain context; closing it releases the temp files the chain registered
// (sampled frame images and their scratch directory), whether the run
// succeeded or not.
//
// Inputs:
//   - ctx: The Go context for this message, carrying the receive span.
//   - payload: The raw message data, handed to the chain as its input.
//
// Outputs:
//   - bool: True when the chain completed without errors.
func (m *PubSubListener) process(ctx context.Context, payload string) bool {
	chainCtx := cor.NewBaseContext()
	chainCtx.SetContext(ctx)
	chainCtx.Add(cor.CtxIn, payload)
	defer chainCtx.Close()

	m.command.Execute(chainCtx)

	if chainCtx.HasErrors() {
		for _, e := range chainCtx.GetErrors() {
			log.Printf("error executing chain: %v", e)
		}
		return false
	}
	return true
}

// Listen starts the asynchronous receive loop in its own goroutine so the
// host keeps serving API requests while messages are processed in the
// background.
//
// Inputs:
//   - ctx: Controls the listener's lifetime; canceling it stops receiving.
func (m *PubSubListener) Listen(ctx context.Context) {
	log.Printf("listening: %s", m.subscription)

	go func() {
		tracer := otel.Tracer("message-listener")

		err := m.subscription.Receive(ctx, func(_ context.Context, msg *pubsub.Message) {
			spanCtx, span := tracer.Start(ctx, "receive-message")
			span.SetName("receive-message")
			span.SetAttributes(attribute.String("msg", string(msg.Data)))
			log.Println("received message")

			if m.process(spanCtx, string(msg.Data)) {
				span.SetStatus(codes.Ok, "success")
				msg.Ack()
			} else {
				span.SetStatus(codes.Error, "failed")
				// Not acking lets the message redeliver after the deadline,
				// following the subscription's retry policy.
			}

			span.End()
		})

		if err != nil {
			log.Printf("error receiving data: %v", err)
		}
	}()
}
