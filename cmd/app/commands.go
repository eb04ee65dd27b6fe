package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/topevent/topevent-go/internal/api/request"
	"github.com/topevent/topevent-go/internal/domain"
	"github.com/topevent/topevent-go/internal/repository"
)

const usage = `usage: topevent <command> [flags]

commands:
  register | login | logout | whoami | update-profile
  events | top | admin-events | event <id>
  create-event | update-event <id> | delete-event <id>
  subscribe <eventId> | unsubscribe <subscriptionId> | subscriptions
  roster <eventId>
`

// Run dispatches a single subcommand. Interrupts cancel the in-flight
// request; a cancelled command exits quietly.
func (a *App) Run(args []string) error {
	if len(args) == 0 {
		fmt.Print(usage)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := a.dispatch(ctx, args[0], args[1:])
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		return nil
	default:
		printError(err)
		return ErrCommandFailed
	}
}

// ErrCommandFailed marks a failure already reported to the user, so the
// caller exits nonzero without printing it again.
var ErrCommandFailed = errors.New("command failed")

func (a *App) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return a.runRegister(ctx, args)
	case "login":
		return a.runLogin(ctx, args)
	case "logout":
		return a.Auth.Logout()
	case "whoami":
		return a.runWhoami()
	case "update-profile":
		return a.runUpdateProfile(ctx, args)
	case "events":
		return a.runEvents(ctx, args)
	case "top":
		return a.runTop(ctx)
	case "admin-events":
		return a.runAdminEvents(ctx)
	case "event":
		return a.runEvent(ctx, args)
	case "create-event":
		return a.runCreateEvent(ctx, args)
	case "update-event":
		return a.runUpdateEvent(ctx, args)
	case "delete-event":
		return a.runDeleteEvent(ctx, args)
	case "subscribe":
		return a.runSubscribe(ctx, args)
	case "unsubscribe":
		return a.runUnsubscribe(ctx, args)
	case "subscriptions":
		return a.runSubscriptions(ctx)
	case "roster":
		return a.runRoster(ctx, args)
	default:
		fmt.Print(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *App) runRegister(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	mail := fs.String("mail", "", "email address")
	password := fs.String("password", "", "password")
	role := fs.String("role", string(domain.RoleUser), "role (user|admin)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.Auth.Register(ctx, request.RegisterInput{
		FirstName: *firstName,
		LastName:  *lastName,
		Mail:      *mail,
		Password:  *password,
		Role:      domain.Role(*role),
	})
	if err != nil {
		return err
	}

	fmt.Printf("registered and logged in as %s %s <%s>\n", sess.User.FirstName, sess.User.LastName, sess.User.Mail)
	return nil
}

func (a *App) runLogin(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	mail := fs.String("mail", "", "email address")
	password := fs.String("password", "", "password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	sess, err := a.Auth.Login(ctx, request.LoginInput{Mail: *mail, Password: *password})
	if err != nil {
		return err
	}

	fmt.Printf("logged in as %s %s <%s>\n", sess.User.FirstName, sess.User.LastName, sess.User.Mail)
	return nil
}

func (a *App) runWhoami() error {
	if !a.Sessions.IsAuthenticated() {
		fmt.Println("not logged in")
		return nil
	}

	user := a.Sessions.User()
	fmt.Printf("%s %s <%s> (%s)\n", user.FirstName, user.LastName, user.Mail, user.Role)
	if expiry := a.Sessions.TokenExpiry(); !expiry.IsZero() {
		fmt.Printf("session expires %s\n", expiry.Format(time.RFC1123))
	}
	return nil
}

func (a *App) runUpdateProfile(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("update-profile", flag.ContinueOnError)
	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	mail := fs.String("mail", "", "email address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	user, err := a.Auth.UpdateProfile(ctx, request.UserUpdateInput{
		FirstName: *firstName,
		LastName:  *lastName,
		Mail:      *mail,
	})
	if err != nil {
		return err
	}

	fmt.Printf("profile updated: %s %s <%s>\n", user.FirstName, user.LastName, user.Mail)
	return nil
}

func (a *App) runEvents(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("events", flag.ContinueOnError)
	search := fs.String("search", "", "free-text search")
	category := fs.String("category", "", "event type (concert|webinaire|conference|all)")
	location := fs.String("location", "", "location substring")
	date := fs.String("date", "", "date filter (YYYY-MM-DD)")
	page := fs.Int("page", 0, "page number")
	limit := fs.Int("limit", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filters := repository.EventFilters{
		Search:   *search,
		Category: *category,
		Location: *location,
		Date:     *date,
		Page:     *page,
		Limit:    *limit,
	}

	events, err := a.Events.List(ctx, filters)
	if err != nil {
		// An interrupt is not a failed refresh; exit quietly.
		if errors.Is(err, context.Canceled) {
			return err
		}
		// Keep showing the previous results when a refetch fails.
		if cached, ok := a.Events.CachedList(filters); ok {
			printEvents(cached)
			fmt.Fprintf(os.Stderr, "showing cached results, refresh failed: %v\n", err)
			return nil
		}
		return err
	}

	printEvents(events)
	return nil
}

func (a *App) runTop(ctx context.Context) error {
	events, err := a.Events.Top(ctx)
	if err != nil {
		return err
	}

	printEvents(events)
	return nil
}

func (a *App) runAdminEvents(ctx context.Context) error {
	events, err := a.Events.AdminList(ctx)
	if err != nil {
		return err
	}

	printEvents(events)
	return nil
}

func (a *App) runEvent(ctx context.Context, args []string) error {
	eventID, err := intArg(args, "event id")
	if err != nil {
		return err
	}

	event, err := a.Events.Get(ctx, eventID)
	if err != nil {
		return err
	}

	printEventDetail(event)

	if event.SubscriptionOpen(time.Now()) {
		fmt.Println("registration is open")
	} else {
		fmt.Println("registration is closed")
	}

	if a.Sessions.IsAuthenticated() {
		sub, err := a.Subscriptions.UserSubscription(ctx, eventID)
		if err != nil {
			return err
		}
		if sub != nil {
			fmt.Printf("you are registered since %s\n", sub.SubscriptionDate.Format("2006-01-02"))
		} else {
			fmt.Println("you are not registered for this event")
		}
	}
	return nil
}

func eventInputFlags(fs *flag.FlagSet) *request.EventInput {
	input := &request.EventInput{}
	fs.StringVar(&input.Name, "name", "", "event name")
	fs.StringVar(&input.Description, "description", "", "description")
	fs.StringVar(&input.Location, "location", "", "location")
	fs.StringVar((*string)(&input.Type), "type", "", "event type (concert|webinaire|conference)")
	fs.BoolVar(&input.IsPublic, "public", false, "whether the event is public")
	fs.StringVar(&input.StartDate, "start", "", "start date (e.g. 2025-01-02T10:00)")
	fs.StringVar(&input.EndDate, "end", "", "end date")
	fs.StringVar(&input.LimitSubscriptionDate, "limit-date", "", "registration cutoff (optional)")
	fs.StringVar(&input.TotalPlaces, "places", "", "total places (optional)")

	return input
}

func (a *App) runCreateEvent(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("create-event", flag.ContinueOnError)
	input := eventInputFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	event, err := a.Events.Create(ctx, *input)
	if err != nil {
		return err
	}

	fmt.Printf("created event %d: %s\n", event.ID, event.Name)
	return nil
}

func (a *App) runUpdateEvent(ctx context.Context, args []string) error {
	eventID, err := intArg(args, "event id")
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("update-event", flag.ContinueOnError)
	input := eventInputFlags(fs)
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	event, err := a.Events.Update(ctx, eventID, *input)
	if err != nil {
		return err
	}

	fmt.Printf("updated event %d: %s\n", event.ID, event.Name)
	return nil
}

func (a *App) runDeleteEvent(ctx context.Context, args []string) error {
	eventID, err := intArg(args, "event id")
	if err != nil {
		return err
	}

	if err := a.Events.Delete(ctx, eventID); err != nil {
		return err
	}

	fmt.Printf("deleted event %d\n", eventID)
	return nil
}

func (a *App) runSubscribe(ctx context.Context, args []string) error {
	eventID, err := intArg(args, "event id")
	if err != nil {
		return err
	}

	event, err := a.Events.Get(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.SubscriptionOpen(time.Now()) {
		return fmt.Errorf("registration for %q is closed", event.Name)
	}

	sub, err := a.Subscriptions.Subscribe(ctx, eventID)
	if err != nil {
		return err
	}

	fmt.Printf("subscribed to event %d (subscription %d)\n", sub.EventID, sub.ID)
	return nil
}

func (a *App) runUnsubscribe(ctx context.Context, args []string) error {
	subscriptionID, err := intArg(args, "subscription id")
	if err != nil {
		return err
	}

	if err := a.Subscriptions.Cancel(ctx, subscriptionID); err != nil {
		return err
	}

	fmt.Printf("cancelled subscription %d\n", subscriptionID)
	return nil
}

func (a *App) runSubscriptions(ctx context.Context) error {
	subs, err := a.Subscriptions.Mine(ctx)
	if err != nil {
		return err
	}

	sort.Slice(subs, func(i, j int) bool {
		return subs[i].SubscriptionDate.Before(subs[j].SubscriptionDate)
	})
	for _, sub := range subs {
		fmt.Printf("%d\tevent %d\tsince %s\n", sub.ID, sub.EventID, sub.SubscriptionDate.Format("2006-01-02"))
	}
	if len(subs) == 0 {
		fmt.Println("no upcoming registrations")
	}
	return nil
}

func (a *App) runRoster(ctx context.Context, args []string) error {
	eventID, err := intArg(args, "event id")
	if err != nil {
		return err
	}

	roster, err := a.Events.Roster(ctx, eventID)
	if err != nil {
		return err
	}

	for _, row := range roster {
		fmt.Printf("%d\t%s %s <%s>\t%s\n", row.ID, row.User.FirstName, row.User.LastName, row.User.Mail,
			row.SubscriptionDate.Format("2006-01-02"))
	}
	return nil
}

func intArg(args []string, name string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, args[0])
	}

	return n, nil
}

func printEvents(events []domain.Event) {
	for _, e := range events {
		places := "unlimited"
		if e.TotalPlaces != nil {
			places = strconv.Itoa(*e.TotalPlaces)
		}
		fmt.Printf("%d\t%s\t%s\t%s\t%s places\t%d registered\n",
			e.ID, e.Name, e.Location, e.StartDate.Format("2006-01-02 15:04"), places, len(e.Subscriptions))
	}
	fmt.Printf("results: %d\n", len(events))
}

func printEventDetail(e domain.Event) {
	fmt.Printf("%s (#%d)\n", e.Name, e.ID)
	if e.Description != nil {
		fmt.Println(*e.Description)
	}
	fmt.Printf("location: %s\n", e.Location)
	if e.Type != nil {
		fmt.Printf("type: %s\n", *e.Type)
	}
	fmt.Printf("from %s to %s\n", e.StartDate.Format(time.RFC1123), e.EndDate.Format(time.RFC1123))
	if e.LimitSubscriptionDate != nil {
		fmt.Printf("registration closes %s\n", e.LimitSubscriptionDate.Format(time.RFC1123))
	}
	if e.TotalPlaces != nil {
		fmt.Printf("places: %d (%d taken)\n", *e.TotalPlaces, len(e.Subscriptions))
	}
	if e.CreatedBy != nil {
		fmt.Printf("organized by %s %s\n", e.CreatedBy.FirstName, e.CreatedBy.LastName)
	}
}

// printError renders validation failures one line per field and everything
// else as the single message the error carries.
func printError(err error) {
	var fields validation.Errors
	if errors.As(err, &fields) {
		keys := make([]string, 0, len(fields))
		for k := range fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(os.Stderr, "%s: %v\n", k, fields[k])
		}
		return
	}

	fmt.Fprintln(os.Stderr, err)
}
