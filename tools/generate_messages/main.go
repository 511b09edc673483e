// Message Generator
//
// This tool generates a large batch of synthetic inventory messages for
// performance testing and profiling. It mixes the message shapes seen in real
// chats: dated headers, transfers, supplier deliveries, recounts, split
// quantity/item lines, and noise.
//
// Usage:
//
//	go run main.go > messages.txt
//	go run main.go 5000 > messages.txt  # Specify message count
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"
)

const defaultCount = 1000

var (
	items = []string{
		"cherry tomatoes", "spaghetti", "cucumbers", "olive oil",
		"rice", "flour", "lemons", "chicken breast",
	}

	locations = []string{"North", "South", "Center", "L", "Harbor"}

	transferVerbs = []string{"passed", "gave", "sent", "delivered", "moved"}
	receiveVerbs  = []string{"got", "received", "arrived"}
	prepositions  = []string{"to", "into", "by"}

	containers = []string{"box", "small box", "crate", "bag"}

	noise = []string{
		"thanks everyone",
		"will update later",
		"<Media omitted>",
		"please double check the last delivery",
	}
)

func main() {
	count := defaultCount
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil {
			count = n
		}
	}

	currentDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	linesWritten := 0

	for i := 0; i < count; i++ {
		switch rand.Intn(10) {
		case 0: // 10% - dated header line
			fmt.Println(currentDate.Format("2.1.06"))
			linesWritten++

		case 1, 2, 3: // 30% - full transfer line
			fmt.Println(generateTransfer())
			linesWritten++

		case 4, 5: // 20% - supplier delivery
			fmt.Println(generateDelivery())
			linesWritten++

		case 6: // 10% - split quantity/item pair
			a, b := generateSplitPair()
			fmt.Println(a)
			fmt.Println(b)
			linesWritten += 2

		case 7: // 10% - recount
			fmt.Printf("recount %d %s\n", rand.Intn(500)+1, randItem())
			linesWritten++

		case 8: // 10% - container quantity
			fmt.Printf("passed %d %s %s to %s\n",
				rand.Intn(5)+1, randContainer(), randItem(), randLocation())
			linesWritten++

		case 9: // 10% - noise line
			fmt.Println(noise[rand.Intn(len(noise))])
			linesWritten++
		}

		// Blank line between messages, date advances.
		if rand.Intn(8) == 0 {
			fmt.Println()
			currentDate = currentDate.AddDate(0, 0, rand.Intn(3)+1)
		}
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d lines\n", linesWritten)
}

func generateTransfer() string {
	verb := transferVerbs[rand.Intn(len(transferVerbs))]
	prep := prepositions[rand.Intn(len(prepositions))]
	qty := rand.Intn(200) + 1
	if rand.Intn(4) == 0 {
		// NxM product form
		return fmt.Sprintf("%s %dx%d %s %s %s",
			verb, rand.Intn(10)+1, rand.Intn(30)+1, randItem(), prep, randLocation())
	}
	return fmt.Sprintf("%s %d %s %s %s", verb, qty, randItem(), prep, randLocation())
}

func generateDelivery() string {
	verb := receiveVerbs[rand.Intn(len(receiveVerbs))]
	return fmt.Sprintf("%s %d %s from the supplier", verb, rand.Intn(500)+1, randItem())
}

func generateSplitPair() (string, string) {
	return strconv.Itoa(rand.Intn(200) + 1), fmt.Sprintf("%s to %s", randItem(), randLocation())
}

func randItem() string      { return items[rand.Intn(len(items))] }
func randLocation() string  { return locations[rand.Intn(len(locations))] }
func randContainer() string { return containers[rand.Intn(len(containers))] }
