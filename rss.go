package pubsite

import (
	"bytes"
	"encoding/xml"
	"time"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title         string    `xml:"title"`
	Link          string    `xml:"link"`
	Description   string    `xml:"description"`
	Copyright     string    `xml:"copyright,omitempty"`
	LastBuildDate string    `xml:"lastBuildDate,omitempty"`
	Items         []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string   `xml:"title"`
	Link        string   `xml:"link"`
	Description string   `xml:"description"`
	PubDate     string   `xml:"pubDate"`
	GUID        rssGUID  `xml:"guid"`
	Categories  []string `xml:"category"`
}

type rssGUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

// FeedXML renders an RSS 2.0 feed of records, which must be the published
// listing in display order.
func FeedXML(id SiteIdentity, records []ContentRecord) ([]byte, error) {
	items := make([]rssItem, 0, len(records))
	for _, r := range records {
		if r.Date == nil {
			continue
		}
		link := id.AbsoluteURL(r.Path)
		items = append(items, rssItem{
			Title:       r.Title,
			Link:        link,
			Description: r.Excerpt,
			PubDate:     r.Date.Format(time.RFC1123Z),
			GUID:        rssGUID{IsPermaLink: false, Value: r.ID},
			Categories:  r.Tags,
		})
	}
	channel := rssChannel{
		Title:       id.Title(),
		Link:        id.AbsoluteURL("/"),
		Description: id.Subtitle(),
		Copyright:   id.Copyright(),
		Items:       items,
	}
	if len(records) > 0 && records[0].Date != nil {
		channel.LastBuildDate = records[0].Date.Format(time.RFC1123Z)
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(rssXML{Version: "2.0", Channel: channel}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
