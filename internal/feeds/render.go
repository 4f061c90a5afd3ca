package feeds

import (
	"fmt"
	"html"
	"strings"
	"time"
)

const (
	FormatAtom = "atom"
	FormatRSS  = "rss"

	ContentTypeAtom = "application/atom+xml; charset=utf-8"
	ContentTypeRSS  = "application/rss+xml; charset=utf-8"
)

// Channel describes the feed as a whole.
type Channel struct {
	Title       string
	Description string
	Language    string
	SiteURL     string
	SelfURL     string
	Author      string
	// Generated is used for the feed timestamp when there are no entries.
	Generated time.Time
}

// ContentType returns the response content type for format.
func ContentType(format string) (string, error) {
	switch format {
	case FormatAtom:
		return ContentTypeAtom, nil
	case FormatRSS:
		return ContentTypeRSS, nil
	default:
		return "", fmt.Errorf("feeds: unknown format %q", format)
	}
}

// Render dispatches to the Atom or RSS builder.
func Render(format string, channel Channel, entries []Entry) (string, error) {
	switch format {
	case FormatAtom:
		return BuildAtom(channel, entries), nil
	case FormatRSS:
		return BuildRSS(channel, entries), nil
	default:
		return "", fmt.Errorf("feeds: unknown format %q", format)
	}
}

// BuildAtom renders an Atom 1.0 document.
func BuildAtom(channel Channel, entries []Entry) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	if lang := strings.TrimSpace(channel.Language); lang != "" {
		builder.WriteString(fmt.Sprintf(`<feed xmlns="http://www.w3.org/2005/Atom" xml:lang="%s">`+"\n", escapeXMLAttr(lang)))
	} else {
		builder.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	}
	builder.WriteString(fmt.Sprintf("  <id>%s</id>\n", escapeXML(feedID(channel))))
	builder.WriteString(fmt.Sprintf("  <title>%s</title>\n", escapeXML(channel.Title)))
	if channel.Description != "" {
		builder.WriteString(fmt.Sprintf("  <subtitle>%s</subtitle>\n", escapeXML(channel.Description)))
	}
	builder.WriteString(fmt.Sprintf("  <updated>%s</updated>\n", latest(channel, entries).UTC().Format(time.RFC3339)))
	if channel.SiteURL != "" {
		builder.WriteString(fmt.Sprintf(`  <link rel="alternate" href="%s" />`+"\n", escapeXMLAttr(channel.SiteURL)))
	}
	if channel.SelfURL != "" {
		builder.WriteString(fmt.Sprintf(`  <link rel="self" href="%s" />`+"\n", escapeXMLAttr(channel.SelfURL)))
	}
	for _, entry := range entries {
		builder.WriteString("  <entry>\n")
		builder.WriteString(fmt.Sprintf("    <id>%s</id>\n", escapeXML(entry.ID)))
		builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(entry.Title)))
		builder.WriteString(fmt.Sprintf(`    <link rel="alternate" href="%s" />`+"\n", escapeXMLAttr(entry.Link)))
		builder.WriteString(fmt.Sprintf("    <updated>%s</updated>\n", entry.Updated.UTC().Format(time.RFC3339)))
		if entry.Summary != "" {
			builder.WriteString(fmt.Sprintf(`    <summary type="text">%s</summary>`+"\n", escapeXML(entry.Summary)))
		}
		if entry.Author != "" {
			builder.WriteString(fmt.Sprintf("    <author>\n      <name>%s</name>\n    </author>\n", escapeXML(entry.Author)))
		}
		builder.WriteString("  </entry>\n")
	}
	builder.WriteString(`</feed>` + "\n")
	return builder.String()
}

// BuildRSS renders an RSS 2.0 document.
func BuildRSS(channel Channel, entries []Entry) string {
	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0" xmlns:dc="http://purl.org/dc/elements/1.1/">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(channel.Title)))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(channel.SiteURL)))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(channel.Description)))
	if lang := strings.TrimSpace(channel.Language); lang != "" {
		builder.WriteString(fmt.Sprintf("    <language>%s</language>\n", escapeXML(lang)))
	}
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", latest(channel, entries).UTC().Format(time.RFC1123Z)))
	for _, entry := range entries {
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(entry.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(entry.Link)))
		builder.WriteString(fmt.Sprintf(`      <guid isPermaLink="false">%s</guid>`+"\n", escapeXML(entry.ID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", entry.Updated.UTC().Format(time.RFC1123Z)))
		if entry.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(entry.Summary)))
		}
		if entry.Author != "" {
			builder.WriteString(fmt.Sprintf("      <dc:creator>%s</dc:creator>\n", escapeXML(entry.Author)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String()
}

func feedID(channel Channel) string {
	if channel.SelfURL != "" {
		return channel.SelfURL
	}
	return channel.SiteURL
}

func latest(channel Channel, entries []Entry) time.Time {
	var newest time.Time
	for _, entry := range entries {
		if entry.Updated.After(newest) {
			newest = entry.Updated
		}
	}
	if newest.IsZero() {
		return channel.Generated
	}
	return newest
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}

func escapeXMLAttr(value string) string {
	return html.EscapeString(value)
}
