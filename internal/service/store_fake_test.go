package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"Campus_Portal/internal/model"
	"Campus_Portal/internal/repository"
)

// memData 内存版存储，Transaction 期间持有互斥锁，出错时恢复快照
type memData struct {
	mu sync.Mutex

	seq       uint64
	users     map[uint64]model.User
	clubs     map[uint64]model.Club
	members   []model.ClubMember
	requests  []model.ClubRequest
	events    []model.ClubEvent
	news      map[uint64]model.News
	favorites []model.Favorite
	outbox    []model.ClubOutbox

	// fail 按操作名注入错误
	fail map[string]error
}

type memStore struct {
	d    *memData
	inTx bool
}

func newMemStore() *memStore {
	return &memStore{d: &memData{
		users: map[uint64]model.User{},
		clubs: map[uint64]model.Club{},
		news:  map[uint64]model.News{},
		fail:  map[string]error{},
	}}
}

func (s *memStore) lock() {
	if !s.inTx {
		s.d.mu.Lock()
	}
}

func (s *memStore) unlock() {
	if !s.inTx {
		s.d.mu.Unlock()
	}
}

func (s *memStore) failed(op string) error {
	return s.d.fail[op]
}

func (s *memStore) nextID() uint64 {
	s.d.seq++
	return s.d.seq
}

func (s *memStore) Users() repository.UserRepository         { return memUsers{s} }
func (s *memStore) Clubs() repository.ClubRepository         { return memClubs{s} }
func (s *memStore) News() repository.NewsRepository          { return memNews{s} }
func (s *memStore) Favorites() repository.FavoriteRepository { return memFavorites{s} }
func (s *memStore) Outbox() repository.OutboxRepository      { return memOutbox{s} }

func (s *memStore) Transaction(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.d.mu.Lock()
	defer s.d.mu.Unlock()

	snap := s.d.snapshot()
	if err := fn(&memStore{d: s.d, inTx: true}); err != nil {
		s.d.restore(snap)
		return err
	}
	return nil
}

func (d *memData) snapshot() *memData {
	cp := &memData{
		seq:       d.seq,
		users:     make(map[uint64]model.User, len(d.users)),
		clubs:     make(map[uint64]model.Club, len(d.clubs)),
		news:      make(map[uint64]model.News, len(d.news)),
		members:   append([]model.ClubMember(nil), d.members...),
		requests:  append([]model.ClubRequest(nil), d.requests...),
		events:    append([]model.ClubEvent(nil), d.events...),
		favorites: append([]model.Favorite(nil), d.favorites...),
		outbox:    append([]model.ClubOutbox(nil), d.outbox...),
	}
	for k, v := range d.users {
		cp.users[k] = v
	}
	for k, v := range d.clubs {
		cp.clubs[k] = v
	}
	for k, v := range d.news {
		cp.news[k] = v
	}
	return cp
}

func (d *memData) restore(cp *memData) {
	d.seq = cp.seq
	d.users, d.clubs, d.news = cp.users, cp.clubs, cp.news
	d.members, d.requests, d.events = cp.members, cp.requests, cp.events
	d.favorites, d.outbox = cp.favorites, cp.outbox
}

type memUsers struct{ s *memStore }

func (r memUsers) Create(_ context.Context, user *model.User) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.failed("Users.Create"); err != nil {
		return err
	}
	for _, u := range r.s.d.users {
		if u.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	user.ID = r.s.nextID()
	user.CreatedAt = time.Now()
	r.s.d.users[user.ID] = *user
	return nil
}

func (r memUsers) FindByID(_ context.Context, id uint64) (*model.User, error) {
	r.s.lock()
	defer r.s.unlock()
	u, ok := r.s.d.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r memUsers) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.s.lock()
	defer r.s.unlock()
	for _, u := range r.s.d.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memUsers) FindByIDs(_ context.Context, ids []uint64) ([]model.User, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []model.User
	for _, id := range ids {
		if u, ok := r.s.d.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r memUsers) FindByEmails(_ context.Context, emails []string) ([]model.User, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []model.User
	for _, u := range r.s.d.users {
		for _, e := range emails {
			if strings.EqualFold(u.Email, e) {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

type memClubs struct{ s *memStore }

func (r memClubs) Create(_ context.Context, club *model.Club) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.failed("Clubs.Create"); err != nil {
		return err
	}
	club.ID = r.s.nextID()
	club.CreatedAt = time.Now()
	club.UpdatedAt = club.CreatedAt
	c := *club
	c.Members, c.Requests, c.Events = nil, nil, nil
	r.s.d.clubs[c.ID] = c
	return nil
}

func (r memClubs) FindByID(_ context.Context, id uint64) (*model.Club, error) {
	r.s.lock()
	defer r.s.unlock()
	return r.load(id)
}

func (r memClubs) LockByID(_ context.Context, id uint64) (*model.Club, error) {
	r.s.lock()
	defer r.s.unlock()
	return r.load(id)
}

func (r memClubs) load(id uint64) (*model.Club, error) {
	c, ok := r.s.d.clubs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for _, m := range r.s.d.members {
		if m.ClubID == id {
			c.Members = append(c.Members, m)
		}
	}
	for _, q := range r.s.d.requests {
		if q.ClubID == id {
			c.Requests = append(c.Requests, q)
		}
	}
	for _, e := range r.s.d.events {
		if e.ClubID == id {
			c.Events = append(c.Events, e)
		}
	}
	return &c, nil
}

func (r memClubs) List(_ context.Context) ([]model.Club, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []model.Club
	for id := range r.s.d.clubs {
		c, _ := r.load(id)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r memClubs) ListByMember(_ context.Context, userID uint64, leaderOnly bool) ([]model.Club, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []model.Club
	for _, m := range r.s.d.members {
		if m.UserID != userID || (leaderOnly && m.Role != model.MemberRoleLeader) {
			continue
		}
		if c, ok := r.s.d.clubs[m.ClubID]; ok {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r memClubs) UpdateInfo(_ context.Context, club *model.Club) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.failed("Clubs.UpdateInfo"); err != nil {
		return err
	}
	c, ok := r.s.d.clubs[club.ID]
	if !ok {
		return nil
	}
	c.Name, c.Description, c.CoverImage = club.Name, club.Description, club.CoverImage
	c.UpdatedAt = time.Now()
	r.s.d.clubs[club.ID] = c
	return nil
}

func (r memClubs) Delete(_ context.Context, id uint64) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.failed("Clubs.Delete"); err != nil {
		return err
	}
	delete(r.s.d.clubs, id)
	r.s.d.members = filter(r.s.d.members, func(m model.ClubMember) bool { return m.ClubID != id })
	r.s.d.requests = filter(r.s.d.requests, func(q model.ClubRequest) bool { return q.ClubID != id })
	r.s.d.events = filter(r.s.d.events, func(e model.ClubEvent) bool { return e.ClubID != id })
	return nil
}

func (r memClubs) UpsertMember(_ context.Context, clubID, userID uint64, role model.MemberRole) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.failed("Clubs.UpsertMember"); err != nil {
		return err
	}
	for i, m := range r.s.d.members {
		if m.ClubID == clubID && m.UserID == userID {
			r.s.d.members[i].Role = role
			return nil
		}
	}
	r.s.d.members = append(r.s.d.members, model.ClubMember{
		ID: r.s.nextID(), ClubID: clubID, UserID: userID, Role: role,
	})
	return nil
}

func (r memClubs) RemoveMember(_ context.Context, clubID, userID uint64) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.d.members = filter(r.s.d.members, func(m model.ClubMember) bool {
		return !(m.ClubID == clubID && m.UserID == userID)
	})
	return nil
}

func (r memClubs) AddRequest(_ context.Context, clubID, userID uint64) error {
	r.s.lock()
	defer r.s.unlock()
	for _, q := range r.s.d.requests {
		if q.ClubID == clubID && q.UserID == userID {
			return repository.ErrDuplicate
		}
	}
	r.s.d.requests = append(r.s.d.requests, model.ClubRequest{ID: r.s.nextID(), ClubID: clubID, UserID: userID})
	return nil
}

func (r memClubs) RemoveRequest(_ context.Context, clubID, userID uint64) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	n := len(r.s.d.requests)
	r.s.d.requests = filter(r.s.d.requests, func(q model.ClubRequest) bool {
		return !(q.ClubID == clubID && q.UserID == userID)
	})
	return len(r.s.d.requests) < n, nil
}

func (r memClubs) AddEvent(_ context.Context, event *model.ClubEvent) error {
	r.s.lock()
	defer r.s.unlock()
	event.ID = r.s.nextID()
	r.s.d.events = append(r.s.d.events, *event)
	return nil
}

func (r memClubs) RemoveEvent(_ context.Context, clubID, eventID uint64) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	n := len(r.s.d.events)
	r.s.d.events = filter(r.s.d.events, func(e model.ClubEvent) bool {
		return !(e.ClubID == clubID && e.ID == eventID)
	})
	return len(r.s.d.events) < n, nil
}

type memNews struct{ s *memStore }

func (r memNews) Create(_ context.Context, news *model.News) error {
	r.s.lock()
	defer r.s.unlock()
	for _, n := range r.s.d.news {
		if n.Slug == news.Slug {
			return repository.ErrDuplicate
		}
	}
	news.ID = r.s.nextID()
	r.s.d.news[news.ID] = *news
	return nil
}

func (r memNews) FindBySlug(_ context.Context, slug string) (*model.News, error) {
	r.s.lock()
	defer r.s.unlock()
	for _, n := range r.s.d.news {
		if n.Slug == slug {
			return &n, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r memNews) FindByID(_ context.Context, id uint64) (*model.News, error) {
	r.s.lock()
	defer r.s.unlock()
	n, ok := r.s.d.news[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &n, nil
}

func (r memNews) FindByIDs(_ context.Context, ids []uint64) ([]model.News, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []model.News
	for _, id := range ids {
		if n, ok := r.s.d.news[id]; ok {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r memNews) List(_ context.Context) ([]model.News, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []model.News
	for _, n := range r.s.d.news {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

func (r memNews) Update(_ context.Context, news *model.News) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.d.news[news.ID] = *news
	return nil
}

func (r memNews) Delete(_ context.Context, id uint64) error {
	r.s.lock()
	defer r.s.unlock()
	delete(r.s.d.news, id)
	return nil
}

func (r memNews) SlugExists(_ context.Context, slug string) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	for _, n := range r.s.d.news {
		if n.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

type memFavorites struct{ s *memStore }

func (r memFavorites) Add(_ context.Context, userID, newsID uint64) (bool, error) {
	r.s.lock()
	defer r.s.unlock()
	for _, f := range r.s.d.favorites {
		if f.UserID == userID && f.NewsID == newsID {
			return false, nil
		}
	}
	r.s.d.favorites = append(r.s.d.favorites, model.Favorite{ID: r.s.nextID(), UserID: userID, NewsID: newsID})
	return true, nil
}

func (r memFavorites) Remove(_ context.Context, userID, newsID uint64) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.d.favorites = filter(r.s.d.favorites, func(f model.Favorite) bool {
		return !(f.UserID == userID && f.NewsID == newsID)
	})
	return nil
}

func (r memFavorites) ListNewsIDs(_ context.Context, userID uint64) ([]uint64, error) {
	r.s.lock()
	defer r.s.unlock()
	var ids []uint64
	for _, f := range r.s.d.favorites {
		if f.UserID == userID {
			ids = append(ids, f.NewsID)
		}
	}
	return ids, nil
}

func (r memFavorites) DeleteByNews(_ context.Context, newsID uint64) error {
	r.s.lock()
	defer r.s.unlock()
	r.s.d.favorites = filter(r.s.d.favorites, func(f model.Favorite) bool { return f.NewsID != newsID })
	return nil
}

type memOutbox struct{ s *memStore }

func (r memOutbox) Add(_ context.Context, row *model.ClubOutbox) error {
	r.s.lock()
	defer r.s.unlock()
	if err := r.s.failed("Outbox.Add"); err != nil {
		return err
	}
	row.ID = r.s.nextID()
	r.s.d.outbox = append(r.s.d.outbox, *row)
	return nil
}

func (r memOutbox) ListPending(_ context.Context, limit int) ([]model.ClubOutbox, error) {
	r.s.lock()
	defer r.s.unlock()
	var out []model.ClubOutbox
	for _, ob := range r.s.d.outbox {
		if ob.Status == model.OutboxPending || (ob.Status == model.OutboxFailed && ob.Retry < model.OutboxMaxRetry) {
			out = append(out, ob)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r memOutbox) MarkSent(_ context.Context, id uint64) error {
	r.s.lock()
	defer r.s.unlock()
	for i := range r.s.d.outbox {
		if r.s.d.outbox[i].ID == id {
			r.s.d.outbox[i].Status = model.OutboxSent
		}
	}
	return nil
}

func (r memOutbox) MarkFailed(_ context.Context, id uint64) error {
	r.s.lock()
	defer r.s.unlock()
	for i := range r.s.d.outbox {
		if r.s.d.outbox[i].ID == id {
			r.s.d.outbox[i].Status = model.OutboxFailed
			r.s.d.outbox[i].Retry++
		}
	}
	return nil
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}
