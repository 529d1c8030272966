package nlu

import (
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

const (
	supportedIntents  = "none, check_balance, check_transactions, send_money, request_money, yes, no"
	supportedEntities = "amount, bank, currency, user"
)

func getSystemTemplate() string {
	return `You are the language understanding component of a banking assistant. Follow the instructions precisely and return structured output.

			-Goal-
			Given a user utterance, detect the user's **intent** and extract the banking **entities** it mentions.

			STRICT RULES:
			1. You MUST ONLY use the intents and entity types listed in the request
			2. Use "yes" and "no" for answers to a question of the assistant, "none" when the message only provides information or matches nothing
			3. Only extract entities that are LITERALLY PRESENT in the current message, copying the user's words
			4. amount: a money amount with its currency as written ("$50", "20 euros", "five dollars and ten cents")
			5. bank: the name of one of the user's bank accounts ("Top Bank", "my default account")
			6. currency: a currency named without an amount ("in euros", "dollars")
			7. user: a person from the address book ("Antonio", "Pier Bianchi")

			-Steps-
			1. Identify the **top 2 intents** that match the message.
			Format each intent as:
			(intent{TD}<intent_name_in_snake_case>{TD}<probability>)

			2. Identify all **entities** present in the message.
			Format each entity as:
			(entity{TD}<entity_type>{TD}<text_as_written>{TD}<probability>{TD}<metadata>)

			3. Return the output as a list separated by **{RD}**

			4. When complete, return {CD}

			######################
			-Examples-
			######################

			Example 1:
			text: send $50 to Antonio using Top Bank
			######################
			Output:
			(intent{TD}send_money{TD}0.96)
			{RD}
			(intent{TD}request_money{TD}0.03)
			{RD}
			(entity{TD}amount{TD}$50{TD}0.95{TD}{{"span": [5, 8]}})
			{RD}
			(entity{TD}user{TD}Antonio{TD}0.93{TD}{{"span": [12, 19]}})
			{RD}
			(entity{TD}bank{TD}Top Bank{TD}0.90{TD}{{"span": [26, 34]}})
			{CD}

			######################

			Example 2:
			text: yeah go ahead
			######################
			Output:
			(intent{TD}yes{TD}0.94)
			{RD}
			(intent{TD}none{TD}0.04)
			{CD}

			######################

			Example 3:
			text: the one in euros I think
			######################
			Output:
			(intent{TD}none{TD}0.71)
			{RD}
			(intent{TD}check_balance{TD}0.20)
			{RD}
			(entity{TD}currency{TD}euros{TD}0.62{TD}{{"span": [11, 16]}})
			{CD}`
}

func getUserTemplate() string {
	return `text: {input_text}
			intents: {intents}
			entities: {entities}

			Output:`
}

// createNLUTemplate builds the chat template. Delimiters are substituted here, the remaining
// variables are filled by the chain on every call.
func createNLUTemplate(cfg *ProcessorConfig) prompt.ChatTemplate {
	replacer := strings.NewReplacer(
		"{TD}", cfg.TupleDelimiter,
		"{RD}", cfg.RecordDelimiter,
		"{CD}", cfg.CompletionDelimiter,
	)

	messages := []schema.MessagesTemplate{
		schema.SystemMessage(replacer.Replace(getSystemTemplate())),
		schema.UserMessage(getUserTemplate()),
	}

	return prompt.FromMessages(schema.FString, messages...)
}

func templateVariables(input string) map[string]any {
	return map[string]any{
		"input_text": input,
		"intents":    supportedIntents,
		"entities":   supportedEntities,
	}
}
