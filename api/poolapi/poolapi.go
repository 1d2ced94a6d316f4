// Copyright (c) 2025 The staking-test developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package poolapi exposes the pool's operations and queries over HTTP.
package poolapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	pkgerrors "github.com/pkg/errors"

	"github.com/gafaradetunji/staking-test/api/utils"
	"github.com/gafaradetunji/staking-test/eventdb"
	"github.com/gafaradetunji/staking-test/pool"
	"github.com/gafaradetunji/staking-test/staking"
)

// PoolAPI serves the pool endpoints. The event db is optional; without it
// the events endpoint responds 404.
type PoolAPI struct {
	pool   *pool.Pool
	events *eventdb.EventDB
}

// New creates the handler group.
func New(p *pool.Pool, events *eventdb.EventDB) *PoolAPI {
	return &PoolAPI{pool: p, events: events}
}

func (a *PoolAPI) handleGetStatus(w http.ResponseWriter, _ *http.Request) error {
	rewardPerShare, err := a.pool.RewardPerShare()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &PoolStatus{
		TotalStaked:              a.pool.TotalSupply().Dec(),
		RewardRate:               a.pool.RewardRate().Dec(),
		RewardPerShare:           rewardPerShare.Dec(),
		Duration:                 a.pool.Duration(),
		FinishAt:                 a.pool.FinishAt(),
		UpdatedAt:                a.pool.UpdatedAt(),
		LastTimeRewardApplicable: a.pool.LastTimeRewardApplicable(),
	})
}

func (a *PoolAPI) handleGetAccount(w http.ResponseWriter, req *http.Request) error {
	account, err := staking.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "address"))
	}
	earned, err := a.pool.Earned(account)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, &AccountStatus{
		Address: account,
		Staked:  a.pool.BalanceOf(account).Dec(),
		Earned:  earned.Dec(),
	})
}

func (a *PoolAPI) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body MoveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "body"))
	}
	account, err := staking.ParseAddress(body.Account)
	if err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "account"))
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(err)
	}
	if err := a.pool.Stake(account, amount); err != nil {
		return poolError(err)
	}
	return utils.WriteJSON(w, map[string]bool{"ok": true})
}

func (a *PoolAPI) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	var body MoveRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "body"))
	}
	account, err := staking.ParseAddress(body.Account)
	if err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "account"))
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(err)
	}
	if err := a.pool.Withdraw(account, amount); err != nil {
		return poolError(err)
	}
	return utils.WriteJSON(w, map[string]bool{"ok": true})
}

func (a *PoolAPI) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body ClaimRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "body"))
	}
	account, err := staking.ParseAddress(body.Account)
	if err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "account"))
	}
	paid, err := a.pool.GetReward(account)
	if err != nil {
		return poolError(err)
	}
	return utils.WriteJSON(w, &ClaimResponse{Paid: paid.Dec()})
}

func (a *PoolAPI) handleSetDuration(w http.ResponseWriter, req *http.Request) error {
	var body DurationRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "body"))
	}
	caller, err := staking.ParseAddress(body.Caller)
	if err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "caller"))
	}
	if err := a.pool.SetRewardsDuration(caller, body.Duration); err != nil {
		return poolError(err)
	}
	return utils.WriteJSON(w, map[string]bool{"ok": true})
}

func (a *PoolAPI) handleNotifyRewards(w http.ResponseWriter, req *http.Request) error {
	var body RewardsRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "body"))
	}
	caller, err := staking.ParseAddress(body.Caller)
	if err != nil {
		return utils.BadRequest(pkgerrors.WithMessage(err, "caller"))
	}
	amount, err := parseAmount(body.Amount)
	if err != nil {
		return utils.BadRequest(err)
	}
	if err := a.pool.NotifyRewardAmount(caller, amount); err != nil {
		return poolError(err)
	}
	return utils.WriteJSON(w, map[string]bool{"ok": true})
}

func (a *PoolAPI) handleGetEvents(w http.ResponseWriter, req *http.Request) error {
	if a.events == nil {
		return utils.HTTPError(errors.New("event log not enabled"), http.StatusNotFound)
	}
	filter, err := parseEventFilter(req)
	if err != nil {
		return utils.BadRequest(err)
	}
	stored, err := a.events.Query(req.Context(), filter)
	if err != nil {
		return err
	}
	out := make([]*StoredEvent, 0, len(stored))
	for _, ev := range stored {
		out = append(out, &StoredEvent{
			Seq:     ev.Seq,
			Time:    ev.Time,
			Kind:    ev.Kind,
			Account: ev.Account,
			Amount:  ev.Amount.Dec(),
		})
	}
	return utils.WriteJSON(w, out)
}

func parseEventFilter(req *http.Request) (*eventdb.Filter, error) {
	query := req.URL.Query()
	filter := &eventdb.Filter{Kind: query.Get("kind")}
	if s := query.Get("account"); s != "" {
		account, err := staking.ParseAddress(s)
		if err != nil {
			return nil, pkgerrors.WithMessage(err, "account")
		}
		filter.Account = &account
	}
	for key, dst := range map[string]*uint64{"from": &filter.From, "to": &filter.To} {
		if s := query.Get(key); s != "" {
			v, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return nil, pkgerrors.WithMessage(err, key)
			}
			*dst = v
		}
	}
	if s := query.Get("limit"); s != "" {
		v, err := strconv.ParseUint(s, 10, 31)
		if err != nil {
			return nil, pkgerrors.WithMessage(err, "limit")
		}
		filter.Limit = int(v)
	}
	return filter, nil
}

// poolError maps the pool's error kinds onto http statuses.
func poolError(err error) error {
	switch {
	case errors.Is(err, pool.ErrNotAuthorized):
		return utils.Forbidden(err)
	case errors.Is(err, pool.ErrTransferFailed):
		return utils.Conflict(err)
	case errors.Is(err, pool.ErrInvalidAmount),
		errors.Is(err, pool.ErrInsufficientBalance),
		errors.Is(err, pool.ErrPeriodNotFinished),
		errors.Is(err, pool.ErrInvalidDuration),
		errors.Is(err, pool.ErrZeroRewardRate),
		errors.Is(err, pool.ErrInsufficientRewardBalance):
		return utils.BadRequest(err)
	default:
		return err
	}
}

// Mount attaches the handlers under the given path prefix.
func (a *PoolAPI) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /pool").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStatus))
	sub.Path("/accounts/{address}").
		Methods(http.MethodGet).
		Name("GET /pool/accounts/{address}").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetAccount))
	sub.Path("/stake").
		Methods(http.MethodPost).
		Name("POST /pool/stake").
		HandlerFunc(utils.WrapHandlerFunc(a.handleStake))
	sub.Path("/withdraw").
		Methods(http.MethodPost).
		Name("POST /pool/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(a.handleWithdraw))
	sub.Path("/claim").
		Methods(http.MethodPost).
		Name("POST /pool/claim").
		HandlerFunc(utils.WrapHandlerFunc(a.handleClaim))
	sub.Path("/duration").
		Methods(http.MethodPost).
		Name("POST /pool/duration").
		HandlerFunc(utils.WrapHandlerFunc(a.handleSetDuration))
	sub.Path("/rewards").
		Methods(http.MethodPost).
		Name("POST /pool/rewards").
		HandlerFunc(utils.WrapHandlerFunc(a.handleNotifyRewards))

	root.Path("/events").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetEvents))
}
