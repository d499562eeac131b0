package mensa

import (
	"context"
	"fmt"
)

// Service runs the full fetch-parse-normalize chain for a menu request.
type Service struct {
	client     *Client
	parser     *Parser
	normalizer *Normalizer
}

func NewService(client *Client) *Service {
	return &Service{
		client:     client,
		parser:     NewParser(),
		normalizer: NewNormalizer(),
	}
}

func (s *Service) GetMenu(ctx context.Context) (*Menu, error) {
	data, err := s.client.FetchXML(ctx)
	if err != nil {
		return nil, err
	}

	mensaName, rawDays, err := s.parser.Run(data)
	if err != nil {
		return nil, fmt.Errorf("error parsing menu XML: %w", err)
	}

	menu := s.normalizer.Run(mensaName, rawDays)
	return &menu, nil
}
