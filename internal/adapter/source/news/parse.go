// internal/adapter/source/news/parse.go

package news

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"partypulse/internal/domain/party"
)

const defaultSource = "Google News"

// itemToArticle normalizes a feed entry. Google News appends the outlet to
// the title as "Title - Outlet".
func itemToArticle(item *gofeed.Item, now time.Time) party.Article {
	title := strings.TrimSpace(item.Title)
	outlet := sourceFromTitle(title)
	if outlet == "" && item.Author != nil {
		outlet = item.Author.Name
	}
	if outlet == "" {
		outlet = defaultSource
	}

	published := now
	if item.PublishedParsed != nil {
		published = *item.PublishedParsed
	} else if item.UpdatedParsed != nil {
		published = *item.UpdatedParsed
	}

	desc := cleanHTML(item.Description)
	return party.Article{
		Title:       title,
		Description: party.Clip(desc, descriptionLimit),
		URL:         item.Link,
		Source:      outlet,
		PublishedAt: published,
		Party:       party.ClassifyByCount(item.Title + " " + desc),
	}
}

// sourceFromTitle returns the outlet after the last " - " in a headline
func sourceFromTitle(title string) string {
	i := strings.LastIndex(title, " - ")
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(title[i+3:])
}

// cleanHTML flattens an HTML fragment to collapsed plain text
func cleanHTML(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "<") {
		return strings.Join(strings.Fields(raw), " ")
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return strings.Join(strings.Fields(raw), " ")
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"publishedAt"`
}

// searchNewsAPI queries the NewsAPI everything endpoint with the party's
// leading keywords. Results are attributed to the queried party.
func (c *Client) searchNewsAPI(ctx context.Context, p party.Party) ([]party.Article, error) {
	keywords := party.YSRCPKeywords
	if p == party.TDP {
		keywords = party.TDPKeywords
	}
	if len(keywords) > newsAPIKeywords {
		keywords = keywords[:newsAPIKeywords]
	}

	params := url.Values{}
	params.Set("q", strings.Join(keywords, " OR "))
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", fmt.Sprint(newsAPIPageSize))
	params.Set("apiKey", c.cfg.NewsAPIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.newsAPIURL+"/v2/everything?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result newsAPIResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || result.Status == "error" {
		return nil, fmt.Errorf("newsapi error (status %d): %s", resp.StatusCode, result.Message)
	}

	now := c.now()
	articles := make([]party.Article, 0, len(result.Articles))
	for _, a := range result.Articles {
		if a.Title == "" {
			continue
		}
		published := a.PublishedAt
		if published.IsZero() {
			published = now
		}
		outlet := a.Source.Name
		if outlet == "" {
			outlet = "Unknown"
		}
		articles = append(articles, party.Article{
			Title:       a.Title,
			Description: party.Clip(cleanHTML(a.Description), descriptionLimit),
			URL:         a.URL,
			Source:      outlet,
			PublishedAt: published,
			Party:       p,
		})
	}
	return articles, nil
}
