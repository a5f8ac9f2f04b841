package command

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// ParamType is the semantic type of a declared command parameter
type ParamType int

const (
	ParamUser ParamType = iota
	ParamNumber
	ParamText
)

// optionTypes maps each semantic parameter type to the Discord option type
// that represents it losslessly. A type with no entry here cannot be
// registered.
var optionTypes = map[ParamType]discordgo.ApplicationCommandOptionType{
	ParamUser:   discordgo.ApplicationCommandOptionUser,
	ParamNumber: discordgo.ApplicationCommandOptionNumber,
	ParamText:   discordgo.ApplicationCommandOptionString,
}

// Param declares one typed command parameter
type Param struct {
	Name        string
	Description string
	Type        ParamType
	Required    bool
}

// Handler is invoked with the session, the inbound interaction, and the
// arguments bound from the interaction's option values. Context-bound values
// such as the invoking user come from the interaction itself; fixed values are
// captured by the handler closure at registration time.
type Handler func(s *discordgo.Session, i *discordgo.InteractionCreate, args Args)

// Descriptor declaratively describes one command: its platform-visible schema
// and the handler that services it
type Descriptor struct {
	Name        string
	Description string
	Params      []Param
	Handler     Handler
}

type entry struct {
	descriptor Descriptor
	definition *discordgo.ApplicationCommand
}

// Registry holds command descriptors, installs them against Discord, and
// dispatches inbound interactions to the handler registered for the event's
// command id. Events carrying an unknown command id are ignored; they belong
// to another process or version.
type Registry struct {
	session *discordgo.Session
	guildID string

	pending       []*entry
	installed     map[string]*entry // keyed by the platform-assigned command id
	removeHandler func()
}

// NewRegistry creates a registry that installs commands for the given guild,
// or globally if guildID is empty
func NewRegistry(session *discordgo.Session, guildID string) *Registry {
	return &Registry{
		session: session,
		guildID: guildID,
	}
}

// Register validates a descriptor and queues it for installation. A descriptor
// whose parameters cannot be represented as Discord option types is a
// configuration error and is rejected here, not at dispatch time.
func (r *Registry) Register(d Descriptor) error {
	if r.installed != nil {
		return fmt.Errorf("command %q: registry already installed", d.Name)
	}
	if d.Name == "" {
		return fmt.Errorf("command name is required")
	}
	if d.Handler == nil {
		return fmt.Errorf("command %q: handler is required", d.Name)
	}

	seen := make(map[string]bool)
	options := make([]*discordgo.ApplicationCommandOption, 0, len(d.Params))
	for _, p := range d.Params {
		if seen[p.Name] {
			return fmt.Errorf("command %q: duplicate parameter %q", d.Name, p.Name)
		}
		seen[p.Name] = true

		optionType, ok := optionTypes[p.Type]
		if !ok {
			return fmt.Errorf("command %q: parameter %q has no option type mapping for %d", d.Name, p.Name, p.Type)
		}

		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        optionType,
			Name:        p.Name,
			Description: p.Description,
			Required:    p.Required,
		})
	}

	r.pending = append(r.pending, &entry{
		descriptor: d,
		definition: &discordgo.ApplicationCommand{
			Name:        d.Name,
			Description: d.Description,
			Options:     options,
		},
	})

	return nil
}

// Install registers every queued descriptor with Discord and begins routing
// interaction events. Must be called after the session is open.
func (r *Registry) Install() error {
	if r.installed != nil {
		return fmt.Errorf("registry already installed")
	}

	installed := make(map[string]*entry, len(r.pending))
	for _, e := range r.pending {
		cmd, err := r.session.ApplicationCommandCreate(r.session.State.User.ID, r.guildID, e.definition)
		if err != nil {
			return fmt.Errorf("failed to create command %q: %w", e.descriptor.Name, err)
		}
		installed[cmd.ID] = e
		log.WithFields(log.Fields{
			"command":   e.descriptor.Name,
			"commandID": cmd.ID,
		}).Info("Registered command")
	}

	// The routing table is complete before the event handler is attached, so
	// dispatch reads it without locking
	r.installed = installed
	r.pending = nil
	r.removeHandler = r.session.AddHandler(r.dispatch)

	return nil
}

// Close cancels the event subscription. Installed command definitions remain
// on Discord for the next process to claim.
func (r *Registry) Close() {
	if r.removeHandler != nil {
		r.removeHandler()
		r.removeHandler = nil
	}
}

func (r *Registry) dispatch(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	e, ok := r.installed[data.ID]
	if !ok {
		return
	}

	args, err := bindArgs(e.descriptor.Params, data.Options)
	if err != nil {
		// The platform enforces required flags, so this is a registration
		// misconfiguration rather than user error
		log.WithFields(log.Fields{
			"command":   e.descriptor.Name,
			"commandID": data.ID,
		}).Errorf("Failed to bind arguments: %v", err)
		respondInternalError(s, i)
		return
	}

	e.descriptor.Handler(s, i, args)
}

func respondInternalError(s *discordgo.Session, i *discordgo.InteractionCreate) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Something went wrong. Please try again.",
		},
	})
	if err != nil {
		log.Errorf("Error responding with internal error: %v", err)
	}
}
