package state

import (
	"context"

	"github.com/fernlabs/fern/internal/api"
)

// Ops exposes every domain operation over the store and the HTTP
// adapter. Each method follows the Run contract for its feature; views
// and the CLI consume these instead of touching the adapter directly.
type Ops struct {
	Store *Store
	API   *api.Client
}

// NewOps binds a store to an API client.
func NewOps(s *Store, c *api.Client) *Ops {
	return &Ops{Store: s, API: c}
}

// --- auth ---

// Login authenticates and commits the session.
func (o *Ops) Login(ctx context.Context, email, password string) Result[*api.AuthResponse] {
	return Run(ctx, o.Store, FeatureAuth, func(ctx context.Context) (*api.AuthResponse, error) {
		return o.API.Login(ctx, api.LoginRequest{Email: email, Password: password})
	}, func(resp *api.AuthResponse) {
		o.Store.SetSession(resp.Token, resp.User)
	})
}

// Register creates an account and commits the session.
func (o *Ops) Register(ctx context.Context, req api.RegisterRequest) Result[*api.AuthResponse] {
	return Run(ctx, o.Store, FeatureAuth, func(ctx context.Context) (*api.AuthResponse, error) {
		return o.API.Register(ctx, req)
	}, func(resp *api.AuthResponse) {
		o.Store.SetSession(resp.Token, resp.User)
	})
}

// FetchProfile refreshes the user singleton from the server.
func (o *Ops) FetchProfile(ctx context.Context) Result[*api.UserProfile] {
	return Run(ctx, o.Store, FeatureAuth, func(ctx context.Context) (*api.UserProfile, error) {
		return o.API.Me(ctx)
	}, func(u *api.UserProfile) {
		o.Store.SetUser(*u)
	})
}

// UpdateProfile commits profile edits.
func (o *Ops) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) Result[*api.UserProfile] {
	return Run(ctx, o.Store, FeatureAuth, func(ctx context.Context) (*api.UserProfile, error) {
		return o.API.UpdateProfile(ctx, req)
	}, func(u *api.UserProfile) {
		o.Store.SetUser(*u)
	})
}

// VerifyEmail confirms a verification token. The already-verified
// rejection surfaces as a successful Result (see api.VerifyEmail).
func (o *Ops) VerifyEmail(ctx context.Context, token string) Result[*api.VerifyEmailResult] {
	return Run(ctx, o.Store, FeatureAuth, func(ctx context.Context) (*api.VerifyEmailResult, error) {
		return o.API.VerifyEmail(ctx, token)
	}, nil)
}

// Logout invalidates the token server-side and clears the session
// either way: a dead token is not worth keeping for a failed logout.
func (o *Ops) Logout(ctx context.Context) Result[struct{}] {
	res := Run(ctx, o.Store, FeatureAuth, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.API.Logout(ctx)
	}, nil)
	o.Store.ClearSession()
	return res
}

// --- cycles ---

// LoadCycles replaces the cycle collection from the server.
func (o *Ops) LoadCycles(ctx context.Context, page, limit int) Result[[]api.Cycle] {
	return Run(ctx, o.Store, FeatureCycles, func(ctx context.Context) ([]api.Cycle, error) {
		return o.listCycles(ctx, ListPage{Page: page, Limit: limit})
	}, nil)
}

func (o *Ops) listCycles(ctx context.Context, p ListPage) ([]api.Cycle, error) {
	items, total, err := o.API.ListCycles(ctx, p.Page, p.Limit)
	if err != nil {
		return nil, err
	}
	o.Store.SetCycles(items, total, p.Page, p.Limit)
	return items, nil
}

// FetchCycle upserts a single cycle.
func (o *Ops) FetchCycle(ctx context.Context, id string) Result[*api.Cycle] {
	return Run(ctx, o.Store, FeatureCycles, func(ctx context.Context) (*api.Cycle, error) {
		return o.API.GetCycle(ctx, id)
	}, func(c *api.Cycle) {
		o.Store.UpsertCycle(*c)
	})
}

// FetchCurrentCycle refreshes the active-cycle singleton.
func (o *Ops) FetchCurrentCycle(ctx context.Context) Result[*api.Cycle] {
	return Run(ctx, o.Store, FeatureCycles, func(ctx context.Context) (*api.Cycle, error) {
		return o.API.CurrentCycle(ctx)
	}, func(c *api.Cycle) {
		o.Store.SetCurrentCycle(c)
	})
}

// CreateCycle commits a create (prepend, total+1).
func (o *Ops) CreateCycle(ctx context.Context, in api.CycleInput) Result[*api.Cycle] {
	return Run(ctx, o.Store, FeatureCycles, func(ctx context.Context) (*api.Cycle, error) {
		return o.API.CreateCycle(ctx, in)
	}, func(c *api.Cycle) {
		o.Store.PrependCycle(*c)
	})
}

// UpdateCycle commits an update (upsert in place).
func (o *Ops) UpdateCycle(ctx context.Context, id string, in api.CycleInput) Result[*api.Cycle] {
	return Run(ctx, o.Store, FeatureCycles, func(ctx context.Context) (*api.Cycle, error) {
		return o.API.UpdateCycle(ctx, id, in)
	}, func(c *api.Cycle) {
		o.Store.UpsertCycle(*c)
	})
}

// DeleteCycle removes a cycle locally only after the server confirms.
func (o *Ops) DeleteCycle(ctx context.Context, id string) Result[struct{}] {
	return Run(ctx, o.Store, FeatureCycles, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.API.DeleteCycle(ctx, id)
	}, func(struct{}) {
		o.Store.RemoveCycle(id)
	})
}

// --- medications ---

// LoadMedications replaces the medication collection.
func (o *Ops) LoadMedications(ctx context.Context, page, limit int) Result[[]api.Medication] {
	return Run(ctx, o.Store, FeatureMedications, func(ctx context.Context) ([]api.Medication, error) {
		return o.listMedications(ctx, ListPage{Page: page, Limit: limit})
	}, nil)
}

func (o *Ops) listMedications(ctx context.Context, p ListPage) ([]api.Medication, error) {
	items, total, err := o.API.ListMedications(ctx, p.Page, p.Limit)
	if err != nil {
		return nil, err
	}
	o.Store.SetMedications(items, total, p.Page, p.Limit)
	return items, nil
}

// CreateMedication commits a create.
func (o *Ops) CreateMedication(ctx context.Context, in api.MedicationInput) Result[*api.Medication] {
	return Run(ctx, o.Store, FeatureMedications, func(ctx context.Context) (*api.Medication, error) {
		return o.API.CreateMedication(ctx, in)
	}, func(m *api.Medication) {
		o.Store.PrependMedication(*m)
	})
}

// UpdateMedication commits an update.
func (o *Ops) UpdateMedication(ctx context.Context, id string, in api.MedicationInput) Result[*api.Medication] {
	return Run(ctx, o.Store, FeatureMedications, func(ctx context.Context) (*api.Medication, error) {
		return o.API.UpdateMedication(ctx, id, in)
	}, func(m *api.Medication) {
		o.Store.UpsertMedication(*m)
	})
}

// DeleteMedication removes a schedule after server confirmation.
func (o *Ops) DeleteMedication(ctx context.Context, id string) Result[struct{}] {
	return Run(ctx, o.Store, FeatureMedications, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.API.DeleteMedication(ctx, id)
	}, func(struct{}) {
		o.Store.RemoveMedication(id)
	})
}

// LogDose records a taken dose. No local collection changes; the next
// list fetch carries any server-side bookkeeping.
func (o *Ops) LogDose(ctx context.Context, medicationID string) Result[*api.DoseLog] {
	return Run(ctx, o.Store, FeatureMedications, func(ctx context.Context) (*api.DoseLog, error) {
		return o.API.LogDose(ctx, medicationID)
	}, nil)
}

// --- chat ---

// LoadChatSessions replaces the session collection.
func (o *Ops) LoadChatSessions(ctx context.Context, page, limit int) Result[[]api.ChatSession] {
	return Run(ctx, o.Store, FeatureChat, func(ctx context.Context) ([]api.ChatSession, error) {
		return o.listChatSessions(ctx, ListPage{Page: page, Limit: limit})
	}, nil)
}

func (o *Ops) listChatSessions(ctx context.Context, p ListPage) ([]api.ChatSession, error) {
	items, total, err := o.API.ListChatSessions(ctx, p.Page, p.Limit)
	if err != nil {
		return nil, err
	}
	o.Store.SetChatSessions(items, total, p.Page, p.Limit)
	return items, nil
}

// CreateChatSession starts a conversation and commits it.
func (o *Ops) CreateChatSession(ctx context.Context, title string) Result[*api.ChatSession] {
	return Run(ctx, o.Store, FeatureChat, func(ctx context.Context) (*api.ChatSession, error) {
		return o.API.CreateChatSession(ctx, title)
	}, func(cs *api.ChatSession) {
		o.Store.PrependChatSession(*cs)
	})
}

// OpenChatSession loads a conversation as the selected singleton.
func (o *Ops) OpenChatSession(ctx context.Context, id string) Result[*api.ChatSession] {
	return Run(ctx, o.Store, FeatureChat, func(ctx context.Context) (*api.ChatSession, error) {
		return o.API.GetChatSession(ctx, id)
	}, func(cs *api.ChatSession) {
		o.Store.SelectChatSession(*cs)
	})
}

// SendMessage posts a user message to the companion. The typing
// indicator is set optimistically before the call and cleared
// explicitly afterwards on every branch: when the send succeeds but the
// response carries no assistant reply, the HTTP call still succeeded,
// so the generic failure path would never reset it.
func (o *Ops) SendMessage(ctx context.Context, sessionID, content string) Result[*api.SendMessageResponse] {
	o.Store.SetTyping(sessionID, true)
	res := Run(ctx, o.Store, FeatureChat, func(ctx context.Context) (*api.SendMessageResponse, error) {
		return o.API.SendChatMessage(ctx, sessionID, content)
	}, func(resp *api.SendMessageResponse) {
		o.Store.AppendChatExchange(sessionID, resp.UserMessage, resp.AssistantMessage)
	})
	o.Store.SetTyping(sessionID, false)
	return res
}

// DeleteChatSession removes a conversation after server confirmation.
func (o *Ops) DeleteChatSession(ctx context.Context, id string) Result[struct{}] {
	return Run(ctx, o.Store, FeatureChat, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.API.DeleteChatSession(ctx, id)
	}, func(struct{}) {
		o.Store.RemoveChatSession(id)
	})
}

// --- partner ---

// LoadPartner refreshes the partner singleton.
func (o *Ops) LoadPartner(ctx context.Context) Result[*api.PartnerLink] {
	return Run(ctx, o.Store, FeaturePartner, func(ctx context.Context) (*api.PartnerLink, error) {
		return o.API.GetPartnerLink(ctx)
	}, func(p *api.PartnerLink) {
		o.Store.SetPartnerLink(p)
	})
}

// InvitePartner generates an invite and commits the pending link.
func (o *Ops) InvitePartner(ctx context.Context, email string) Result[*api.PartnerLink] {
	return Run(ctx, o.Store, FeaturePartner, func(ctx context.Context) (*api.PartnerLink, error) {
		return o.API.InvitePartner(ctx, email)
	}, func(p *api.PartnerLink) {
		o.Store.SetPartnerLink(p)
	})
}

// AcceptPartnerInvite links via an invite code.
func (o *Ops) AcceptPartnerInvite(ctx context.Context, code string) Result[*api.PartnerLink] {
	return Run(ctx, o.Store, FeaturePartner, func(ctx context.Context) (*api.PartnerLink, error) {
		return o.API.AcceptPartnerInvite(ctx, code)
	}, func(p *api.PartnerLink) {
		o.Store.SetPartnerLink(p)
	})
}

// UnlinkPartner removes the link after server confirmation.
func (o *Ops) UnlinkPartner(ctx context.Context) Result[struct{}] {
	return Run(ctx, o.Store, FeaturePartner, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.API.UnlinkPartner(ctx)
	}, func(struct{}) {
		o.Store.ClearPartnerLink()
	})
}

// --- community ---

// LoadCommunities replaces the community collection.
func (o *Ops) LoadCommunities(ctx context.Context, page, limit int) Result[[]api.Community] {
	return Run(ctx, o.Store, FeatureCommunity, func(ctx context.Context) ([]api.Community, error) {
		return o.listCommunities(ctx, ListPage{Page: page, Limit: limit})
	}, nil)
}

func (o *Ops) listCommunities(ctx context.Context, p ListPage) ([]api.Community, error) {
	items, total, err := o.API.ListCommunities(ctx, p.Page, p.Limit)
	if err != nil {
		return nil, err
	}
	o.Store.SetCommunities(items, total, p.Page, p.Limit)
	return items, nil
}

// JoinCommunity joins and upserts the returned membership state.
func (o *Ops) JoinCommunity(ctx context.Context, id string) Result[*api.Community] {
	return Run(ctx, o.Store, FeatureCommunity, func(ctx context.Context) (*api.Community, error) {
		return o.API.JoinCommunity(ctx, id)
	}, func(c *api.Community) {
		o.Store.UpsertCommunity(*c)
	})
}

// LeaveCommunity leaves after server confirmation.
func (o *Ops) LeaveCommunity(ctx context.Context, id string) Result[struct{}] {
	return Run(ctx, o.Store, FeatureCommunity, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, o.API.LeaveCommunity(ctx, id)
	}, nil)
}

// LoadPosts replaces the post collection for a community.
func (o *Ops) LoadPosts(ctx context.Context, communityID string, page, limit int) Result[[]api.Post] {
	return Run(ctx, o.Store, FeatureCommunity, func(ctx context.Context) ([]api.Post, error) {
		items, total, err := o.API.ListPosts(ctx, communityID, page, limit)
		if err != nil {
			return nil, err
		}
		o.Store.SetPosts(communityID, items, total, page, limit)
		return items, nil
	}, nil)
}

// CreatePost publishes a post and prepends it locally.
func (o *Ops) CreatePost(ctx context.Context, communityID, content string) Result[*api.Post] {
	return Run(ctx, o.Store, FeatureCommunity, func(ctx context.Context) (*api.Post, error) {
		return o.API.CreatePost(ctx, communityID, content)
	}, func(p *api.Post) {
		o.Store.PrependPost(*p)
	})
}

// --- bindings ---

// ListPage is the pagination payload for the list bindings.
type ListPage struct {
	Page  int
	Limit int
}

// CyclesBinding adapts the cycle list load for a view. The view owns
// the binding for its lifetime and must Close it.
func (o *Ops) CyclesBinding() *Binding[ListPage, []api.Cycle] {
	return Bind(o.Store, FeatureCycles, o.listCycles, nil)
}

// MedicationsBinding adapts the medication list load for a view.
func (o *Ops) MedicationsBinding() *Binding[ListPage, []api.Medication] {
	return Bind(o.Store, FeatureMedications, o.listMedications, nil)
}

// ChatSessionsBinding adapts the session list load for a view.
func (o *Ops) ChatSessionsBinding() *Binding[ListPage, []api.ChatSession] {
	return Bind(o.Store, FeatureChat, o.listChatSessions, nil)
}

// PartnerBinding adapts the partner-link load for a view.
func (o *Ops) PartnerBinding() *Binding[struct{}, *api.PartnerLink] {
	return Bind(o.Store, FeaturePartner, func(ctx context.Context, _ struct{}) (*api.PartnerLink, error) {
		return o.API.GetPartnerLink(ctx)
	}, o.Store.SetPartnerLink)
}

// CommunitiesBinding adapts the community list load for a view.
func (o *Ops) CommunitiesBinding() *Binding[ListPage, []api.Community] {
	return Bind(o.Store, FeatureCommunity, o.listCommunities, nil)
}
