package model

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EncodeDeck renders a deck as a YAML document.
// Empty optional fields are omitted and multi-line strings use block style.
func EncodeDeck(d *Deck) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	if len(d.Cards) > 0 {
		cardsNode := &yaml.Node{Kind: yaml.SequenceNode}
		for i := range d.Cards {
			entry := &d.Cards[i]
			entryNode := &yaml.Node{Kind: yaml.MappingNode}
			addNodeField(entryNode, "card", buildCardNode(&entry.Card))
			addIntField(entryNode, "quantity", entry.Quantity)
			addTimeField(entryNode, "added_at", entry.AddedAt)
			cardsNode.Content = append(cardsNode.Content, entryNode)
		}
		addNodeField(doc, "cards", cardsNode)
	}
	addIntField(doc, "total_cards", d.TotalCards)
	addTimeField(doc, "last_updated", d.LastUpdated)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode deck: %w", err)
	}
	return data, nil
}

// DecodeDeck parses a deck YAML document.
// TotalCards is recomputed from the entries rather than trusted.
func DecodeDeck(data []byte) (*Deck, error) {
	var d Deck
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to parse deck: %w", err)
	}
	d.TotalCards = SumQuantities(d.Cards)
	return &d, nil
}

// EncodeList renders a list as a YAML document.
func EncodeList(l *List) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.MappingNode}

	if len(l.Cards) > 0 {
		cardsNode := &yaml.Node{Kind: yaml.SequenceNode}
		for i := range l.Cards {
			entry := &l.Cards[i]
			entryNode := &yaml.Node{Kind: yaml.MappingNode}
			addNodeField(entryNode, "card", buildCardNode(&entry.Card))
			addTimeField(entryNode, "added_at", entry.AddedAt)
			if entry.Notes != "" {
				addMultilineStringField(entryNode, "notes", entry.Notes)
			}
			cardsNode.Content = append(cardsNode.Content, entryNode)
		}
		addNodeField(doc, "cards", cardsNode)
	}
	addIntField(doc, "total_cards", l.TotalCards)
	addTimeField(doc, "last_updated", l.LastUpdated)

	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode list: %w", err)
	}
	return data, nil
}

// DecodeList parses a list YAML document.
// TotalCards is recomputed from the entries rather than trusted.
func DecodeList(data []byte) (*List, error) {
	var l List
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to parse list: %w", err)
	}
	l.TotalCards = len(l.Cards)
	return &l, nil
}

// EncodeHistory renders a search history as a YAML sequence.
func EncodeHistory(queries []string) ([]byte, error) {
	data, err := yaml.Marshal(queries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode history: %w", err)
	}
	return data, nil
}

// DecodeHistory parses a search history YAML sequence.
func DecodeHistory(data []byte) ([]string, error) {
	var queries []string
	if err := yaml.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("failed to parse history: %w", err)
	}
	return queries, nil
}

// buildCardNode creates a yaml.Node for a Card.
func buildCardNode(c *Card) *yaml.Node {
	node := &yaml.Node{Kind: yaml.MappingNode}

	addStringField(node, "id", c.ID)
	addStringField(node, "name", c.Name)
	if c.Supertype != "" {
		addStringField(node, "supertype", c.Supertype)
	}
	if len(c.Subtypes) > 0 {
		addStringSliceField(node, "subtypes", c.Subtypes)
	}
	if c.Rarity != "" {
		addStringField(node, "rarity", c.Rarity)
	}
	if len(c.Types) > 0 {
		addStringSliceField(node, "types", c.Types)
	}

	setNode := &yaml.Node{Kind: yaml.MappingNode}
	addStringField(setNode, "id", c.Set.ID)
	addStringField(setNode, "name", c.Set.Name)
	if c.Set.Series != "" {
		addStringField(setNode, "series", c.Set.Series)
	}
	if c.Set.PrintedTotal != 0 {
		addIntField(setNode, "printed_total", c.Set.PrintedTotal)
	}
	if c.Set.Total != 0 {
		addIntField(setNode, "total", c.Set.Total)
	}
	if c.Set.ReleaseDate != "" {
		addStringField(setNode, "release_date", c.Set.ReleaseDate)
	}
	addNodeField(node, "set", setNode)

	if c.Number != "" {
		addStringField(node, "number", c.Number)
	}
	if c.Artist != "" {
		addStringField(node, "artist", c.Artist)
	}
	if c.Images.Small != "" || c.Images.Large != "" {
		imagesNode := &yaml.Node{Kind: yaml.MappingNode}
		if c.Images.Small != "" {
			addStringField(imagesNode, "small", c.Images.Small)
		}
		if c.Images.Large != "" {
			addStringField(imagesNode, "large", c.Images.Large)
		}
		addNodeField(node, "images", imagesNode)
	}

	return node
}

// Helper functions for building yaml.Node

func addNodeField(node *yaml.Node, key string, value *yaml.Node) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

func addStringField(node *yaml.Node, key, value string) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Tag: "!!str"},
	)
}

func addIntField(node *yaml.Node, key string, value int) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: fmt.Sprintf("%d", value), Tag: "!!int"},
	)
}

func addTimeField(node *yaml.Node, key string, t time.Time) {
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: t.Format(time.RFC3339Nano)},
	)
}

func addStringSliceField(node *yaml.Node, key string, values []string) {
	seqNode := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, v := range values {
		seqNode.Content = append(seqNode.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: v, Tag: "!!str"},
		)
	}
	addNodeField(node, key, seqNode)
}

func addMultilineStringField(node *yaml.Node, key, value string) {
	// Use literal block scalar style for multi-line strings. Block scalars
	// that need an indentation or keep indicator do not read back, so those
	// are double-quoted.
	var style yaml.Style
	switch {
	case !strings.Contains(value, "\n"):
	case strings.ContainsAny(value[:1], " \t\n"), strings.HasSuffix(value, "\n"):
		style = yaml.DoubleQuotedStyle
	default:
		style = yaml.LiteralStyle
	}
	node.Content = append(node.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		&yaml.Node{Kind: yaml.ScalarNode, Value: value, Style: style, Tag: "!!str"},
	)
}
