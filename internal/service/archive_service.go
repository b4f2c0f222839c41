package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nikhilporwal7/ResumeHelper/internal/domain"
)

// Tags attached to every published snapshot. Process-ID scopes which
// stored blobs belong to this application's queries.
const (
	tagContentType = "Content-Type"
	tagAppName     = "App-Name"
	tagResumeID    = "Resume-ID"
	tagResumeTitle = "Resume-Title"
	tagProcessID   = "Process-ID"

	archiveContentType = "application/json"
	archiveAppName     = "Resume-Builder"
)

// ArchiveReceipt is the result of publishing a snapshot: the content id
// assigned to the submission and the public gateway URL it resolves at.
type ArchiveReceipt struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ArchiveEntry pairs a content id with its decoded résumé. Resume is nil
// when the stored blob did not parse.
type ArchiveEntry struct {
	ID     string             `json:"id"`
	Resume *domain.ResumeData `json:"resume"`
}

// ArchiveService publishes immutable résumé snapshots to the Arweave
// network and reads them back. It is a dumb pass-through: no reconciliation
// with the relational store, no dedup, no content verification beyond what
// the network itself guarantees.
type ArchiveService interface {
	Publish(ctx context.Context, data *domain.ResumeData) (*ArchiveReceipt, error)
	Retrieve(ctx context.Context, contentID string) (*domain.ResumeData, error)
	ListAll(ctx context.Context) ([]ArchiveEntry, error)
}

type arweaveService struct {
	gateway   string
	processID string
	client    *http.Client
}

func NewArweaveService(gateway, processID string) ArchiveService {
	return &arweaveService{
		gateway:   gateway,
		processID: processID,
		client:    &http.Client{Timeout: 20 * time.Second},
	}
}

type arweaveTag struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type arweaveTransaction struct {
	ID   string       `json:"id"`
	Data string       `json:"data"`
	Tags []arweaveTag `json:"tags"`
}

func (s *arweaveService) Publish(ctx context.Context, data *domain.ResumeData) (*ArchiveReceipt, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode resume: %w", err)
	}

	// The content id is derived from the submitted bytes, so republishing
	// an unchanged resume resolves to the same id.
	digest := sha256.Sum256(payload)
	contentID := base64.RawURLEncoding.EncodeToString(digest[:])

	tx := arweaveTransaction{
		ID:   contentID,
		Data: base64.RawURLEncoding.EncodeToString(payload),
		Tags: []arweaveTag{
			encodeTag(tagContentType, archiveContentType),
			encodeTag(tagAppName, archiveAppName),
			encodeTag(tagResumeID, strconv.FormatInt(data.ID, 10)),
			encodeTag(tagResumeTitle, data.Title),
			encodeTag(tagProcessID, s.processID),
		},
	}

	body, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("encode transaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gateway+"/tx", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("submit transaction: gateway responded %s", resp.Status)
	}

	log.Info().Str("content_id", contentID).Int64("resume_id", data.ID).Msg("resume published to archive")

	return &ArchiveReceipt{
		ID:  contentID,
		URL: s.gateway + "/" + contentID,
	}, nil
}

func (s *arweaveService) Retrieve(ctx context.Context, contentID string) (*domain.ResumeData, error) {
	raw, err := s.fetchData(ctx, contentID)
	if err != nil {
		return nil, err
	}

	var data domain.ResumeData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode archived resume %s: %w", contentID, err)
	}
	return &data, nil
}

func (s *arweaveService) ListAll(ctx context.Context) ([]ArchiveEntry, error) {
	ids, err := s.queryIDs(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]ArchiveEntry, 0, len(ids))
	for _, id := range ids {
		entry := ArchiveEntry{ID: id}
		raw, err := s.fetchData(ctx, id)
		if errors.Is(err, domain.ErrArchiveNotFound) {
			entries = append(entries, entry)
			continue
		}
		if err != nil {
			return nil, err
		}
		var data domain.ResumeData
		if err := json.Unmarshal(raw, &data); err != nil {
			// pass the entry through with a nil body rather than
			// aborting the whole listing
			log.Warn().Err(err).Str("content_id", id).Msg("archived entry failed to parse")
		} else {
			entry.Resume = &data
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// fetchData retrieves the raw bytes behind a content id. An empty body or a
// 404 maps to domain.ErrArchiveNotFound; any other non-success response is
// a transport failure carrying the gateway status.
func (s *arweaveService) fetchData(ctx context.Context, contentID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.gateway+"/"+contentID, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", contentID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrArchiveNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: gateway responded %s", contentID, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", contentID, err)
	}
	if len(raw) == 0 {
		return nil, domain.ErrArchiveNotFound
	}
	return raw, nil
}

type graphqlResponse struct {
	Data struct {
		Transactions struct {
			Edges []struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"transactions"`
	} `json:"data"`
}

// queryIDs asks the gateway's GraphQL endpoint for every transaction tagged
// with this application's process id.
func (s *arweaveService) queryIDs(ctx context.Context) ([]string, error) {
	query := fmt.Sprintf(`{
		transactions(
			tags: [
				{ name: %q, values: [%q] },
				{ name: %q, values: [%q] }
			]
		) {
			edges { node { id } }
		}
	}`, tagProcessID, s.processID, tagAppName, archiveAppName)

	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gateway+"/graphql", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("query archive: gateway responded %s", resp.Status)
	}

	var parsed graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode archive query: %w", err)
	}

	ids := make([]string, 0, len(parsed.Data.Transactions.Edges))
	for _, edge := range parsed.Data.Transactions.Edges {
		ids = append(ids, edge.Node.ID)
	}
	return ids, nil
}

func encodeTag(name, value string) arweaveTag {
	return arweaveTag{
		Name:  base64.RawURLEncoding.EncodeToString([]byte(name)),
		Value: base64.RawURLEncoding.EncodeToString([]byte(value)),
	}
}
