// Package chatbot drives the offline chat: it restores the last model into a
// local session, feeds the whole transcript to it on every turn and keeps
// the conversation in the transcript store.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ziadkadry99/cadena/internal/localmodel"
	"github.com/ziadkadry99/cadena/internal/prompt"
	"github.com/ziadkadry99/cadena/internal/storage"
)

// Chatbot combines a local model session with the stores behind it.
type Chatbot struct {
	session     *localmodel.Session
	models      *storage.ModelStore
	transcripts *storage.TranscriptStore
	settings    *storage.SettingsStore
}

// New creates a Chatbot.
func New(session *localmodel.Session, models *storage.ModelStore, transcripts *storage.TranscriptStore, settings *storage.SettingsStore) *Chatbot {
	return &Chatbot{
		session:     session,
		models:      models,
		transcripts: transcripts,
		settings:    settings,
	}
}

// Session returns the underlying model session.
func (c *Chatbot) Session() *localmodel.Session { return c.session }

// Restore loads the model that was selected last time, if any. It returns
// storage.ErrNotFound when no model was ever selected.
func (c *Chatbot) Restore(ctx context.Context, obs localmodel.ProgressObserver) (*storage.StoredModel, error) {
	stored, err := c.models.Current(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.session.Load(ctx, stored.ID, obs); err != nil {
		return nil, err
	}
	return stored, nil
}

// SelectModel loads modelID and remembers it for the next Restore.
func (c *Chatbot) SelectModel(ctx context.Context, modelID string, obs localmodel.ProgressObserver) error {
	if err := c.session.Load(ctx, modelID, obs); err != nil {
		return err
	}
	name := modelID
	if m, ok := localmodel.FindModel(modelID); ok {
		name = m.Name
	}
	return c.models.Save(ctx, modelID, name)
}

// Conversation returns the chat conversation to continue, creating one when
// none exists yet.
func (c *Chatbot) Conversation(ctx context.Context) (*storage.Conversation, error) {
	convs, err := c.transcripts.ListConversations(ctx, storage.KindChat)
	if err != nil {
		return nil, err
	}
	if len(convs) > 0 {
		return &convs[0], nil
	}
	return c.transcripts.CreateConversation(ctx, storage.KindChat, "Offline chat")
}

// Send appends content as a user turn, generates the assistant's reply from
// the full transcript and stores it. onToken, when non-nil, sees the reply as
// it is produced.
func (c *Chatbot) Send(ctx context.Context, convID, content string, onToken func(string)) (*storage.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("message cannot be empty")
	}
	if !c.session.Loaded() {
		return nil, localmodel.ErrNotLoaded
	}

	if _, err := c.transcripts.Append(ctx, convID, storage.RoleUser, content); err != nil {
		return nil, err
	}
	history, err := c.transcripts.Messages(ctx, convID)
	if err != nil {
		return nil, err
	}
	settings, err := c.settings.Get(ctx)
	if err != nil {
		return nil, err
	}

	reply, err := c.session.Generate(ctx, prompt.ChatPrompt(prompt.FromMessages(history)), localmodel.Options{
		Temperature: settings.Temperature,
		MaxTokens:   settings.MaxTokens,
		DoSample:    true,
	}, onToken)
	if err != nil {
		return nil, err
	}

	return c.transcripts.Append(ctx, convID, storage.RoleAssistant, strings.TrimSpace(reply))
}

// ClearChat removes every message from the conversation.
func (c *Chatbot) ClearChat(ctx context.Context, convID string) error {
	return c.transcripts.ClearMessages(ctx, convID)
}

// ClearModel forgets the stored model and wipes the chat history.
func (c *Chatbot) ClearModel(ctx context.Context) error {
	if err := c.models.Clear(ctx); err != nil {
		return err
	}
	convs, err := c.transcripts.ListConversations(ctx, storage.KindChat)
	if err != nil {
		return err
	}
	var errs []error
	for _, conv := range convs {
		errs = append(errs, c.transcripts.ClearMessages(ctx, conv.ID))
	}
	return errors.Join(errs...)
}
