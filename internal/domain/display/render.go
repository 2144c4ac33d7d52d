package display

import (
	"fmt"
	"time"

	"dungeon_schedule_bot/internal/domain/event"
)

// Render maps the classified event lists to the display payload. It is a
// pure function of its arguments: same lists and instant, same embed.
//
// Every active event gets its own countdown section. The first upcoming
// event gets a "next up" countdown only when nothing is active; all other
// upcoming events get a relative timestamp marker and rely on the sink to
// render it live.
func Render(active, upcoming []event.Classified, now time.Time) Embed {
	embed := Embed{
		Title:       embedTitle,
		Description: embedDescription,
		Color:       embedColor,
		FooterText:  embedFooter,
		Timestamp:   now.UTC(),
	}

	for _, ev := range active {
		embed.Fields = append(embed.Fields, Field{
			Name: fmt.Sprintf("🟢 **ACTIVE** - %s", ev.Name),
			Value: fmt.Sprintf("⏱️ Join window closes in: **%s**\n🚪 **JOIN NOW!**",
				event.FormatCountdown(ev.Remaining)),
		})
	}

	for i, ev := range upcoming {
		if i == 0 && len(active) == 0 {
			embed.Fields = append(embed.Fields, Field{
				Name:  fmt.Sprintf("🟡 **NEXT UP** - %s", ev.Name),
				Value: fmt.Sprintf("⏰ Starts in: **%s**", event.FormatCountdown(ev.Until)),
			})
			continue
		}
		embed.Fields = append(embed.Fields, Field{
			Name:  fmt.Sprintf("🔴 **SCHEDULED** - %s", ev.Name),
			Value: fmt.Sprintf("📅 Starts <t:%d:R>", ev.Next.Unix()),
		})
	}

	return embed
}
