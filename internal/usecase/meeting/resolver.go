package meeting

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/johnquangdev/coachlink/internal/domain/entities"
	"github.com/johnquangdev/coachlink/internal/domain/repositories"
	"github.com/johnquangdev/coachlink/internal/infrastructure/external/hubspot"
	"github.com/johnquangdev/coachlink/internal/usecase/normalize"
	"github.com/johnquangdev/coachlink/pkg/phone"
)

// enrichmentFields are the CRM contact properties appended to the meeting body
var enrichmentFields = []string{"jobtitle", "company", "industry", "lifecyclestage", "notes_last_updated"}

// Resolution is the stored identity behind an event
type Resolution struct {
	User   *entities.User
	Client *entities.Client
}

// Resolver maps event identities onto users and clients
type Resolver struct {
	users   repositories.UserRepository
	clients repositories.ClientRepository
	crm     hubspot.CRM
	logger  *zap.Logger
}

// NewResolver creates a resolver. crm may be nil.
func NewResolver(users repositories.UserRepository, clients repositories.ClientRepository, crm hubspot.CRM, logger *zap.Logger) *Resolver {
	return &Resolver{users: users, clients: clients, crm: crm, logger: logger}
}

// Resolve finds the organizer and upserts the client. An unknown organizer
// is a rejection, not an error; error is reserved for storage faults.
func (r *Resolver) Resolve(ctx context.Context, ev *normalize.Event) (Resolution, *normalize.Rejection, error) {
	user, err := r.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(ev.OrganizerEmail)))
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			if r.logger != nil {
				r.logger.Warn("organizer not registered", zap.String("organizer", ev.OrganizerEmail))
			}
			return Resolution{}, &normalize.Rejection{
				Kind:   normalize.RejectUnregisteredOrganizer,
				Reason: "Organizer not registered",
			}, nil
		}
		return Resolution{}, nil, err
	}

	res := Resolution{User: user}
	if ev.ClientEmail == "" {
		return res, nil, nil
	}

	client, err := r.upsertClient(ctx, ev)
	if err != nil {
		return Resolution{}, nil, err
	}
	res.Client = client
	return res, nil, nil
}

func (r *Resolver) upsertClient(ctx context.Context, ev *normalize.Event) (*entities.Client, error) {
	email := strings.ToLower(strings.TrimSpace(ev.ClientEmail))

	existing, err := r.clients.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, entities.ErrClientNotFound) {
		return nil, err
	}
	if existing == nil {
		created := &entities.Client{
			Email:   email,
			Name:    ev.ClientName,
			Company: ev.Company,
		}
		if p := phone.Normalize(ev.ClientPhone); p != "" {
			created.Phone = &p
		}
		if ev.CRMContactID != "" {
			id := ev.CRMContactID
			created.HubSpotContactID = &id
		}
		err := r.clients.Create(ctx, created)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, entities.ErrClientAlreadyExists) {
			return nil, err
		}
		// lost an insert race; merge into the winner's row
		if existing, err = r.clients.FindByEmail(ctx, email); err != nil {
			return nil, err
		}
	}

	updates := clientUpdates(existing, ev)
	if len(updates) == 0 {
		return existing, nil
	}
	if err := r.clients.Update(ctx, existing.ID, updates); err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return r.clients.FindByID(ctx, existing.ID)
}

// clientUpdates never replaces a known value with a blank or placeholder
func clientUpdates(c *entities.Client, ev *normalize.Event) map[string]interface{} {
	updates := map[string]interface{}{}
	if name := entities.MergeClientField(c.Name, ev.ClientName); name != c.Name {
		updates["name"] = name
	}
	if company := entities.MergeClientField(c.Company, ev.Company); company != c.Company {
		updates["company"] = company
	}
	if p := phone.Normalize(ev.ClientPhone); p != "" && c.Phone == nil {
		updates["phone"] = p
	}
	if ev.CRMContactID != "" && (c.HubSpotContactID == nil || *c.HubSpotContactID != ev.CRMContactID) {
		updates["hubspot_contact_id"] = ev.CRMContactID
	}
	return updates
}

// Enrich returns a "[HubSpot context]" block for the meeting body, or ""
// when the CRM is unavailable. It never fails the caller.
func (r *Resolver) Enrich(ctx context.Context, client *entities.Client) string {
	if client == nil || r.crm == nil || !r.crm.Enabled() {
		return ""
	}
	contactID, err := r.contactFor(ctx, client, true)
	if err != nil || contactID == "" {
		r.warn("crm contact lookup failed", client, err)
		return ""
	}
	details, err := r.crm.GetContactDetails(ctx, contactID)
	if err != nil {
		r.warn("crm contact details failed", client, err)
		return ""
	}

	var lines []string
	for _, key := range enrichmentFields {
		if v := strings.TrimSpace(details[key]); v != "" {
			lines = append(lines, fmt.Sprintf("%s: %s", strings.ToUpper(key[:1])+key[1:], v))
		}
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n\n[HubSpot context]\n" + strings.Join(lines, "\n")
}

// contactFor returns the client's CRM contact id, discovering it by email
// (and creating the contact when create is set) and persisting it.
func (r *Resolver) contactFor(ctx context.Context, client *entities.Client, create bool) (string, error) {
	if client == nil || r.crm == nil || !r.crm.Enabled() {
		return "", nil
	}
	if client.HubSpotContactID != nil && *client.HubSpotContactID != "" {
		return *client.HubSpotContactID, nil
	}

	var (
		id  string
		err error
	)
	if create {
		p := ""
		if client.Phone != nil {
			p = phone.Bare(*client.Phone)
		}
		id, err = r.crm.FindOrCreateContact(ctx, client.Email, client.DisplayName("Client"), p)
	} else {
		id, err = r.crm.SearchContactByEmail(ctx, client.Email)
	}
	if err != nil || id == "" {
		return "", err
	}

	if err := r.clients.Update(ctx, client.ID, map[string]interface{}{"hubspot_contact_id": id}); err != nil {
		r.warn("failed to persist crm contact id", client, err)
	}
	client.HubSpotContactID = &id
	return id, nil
}

func (r *Resolver) warn(msg string, client *entities.Client, err error) {
	if r.logger != nil {
		r.logger.Warn(msg, zap.String("client_email", client.Email), zap.Error(err))
	}
}
