package extraction

// Prompts for the three extraction tasks. The list-valued tasks instruct
// the model to answer in bullets, which ParseBullets then strips; the
// "No ... identified." sentinel replies contain no bullets and therefore
// parse to the empty list.

const summaryPrompt = `You are an expert meeting summarizer. Summarize the key points and outcomes in a concise and neutral manner.
Focus on the major topics discussed, conclusions, and actionable takeaways.
Do not introduce any personal opinions. Ensure that the summary highlights all key aspects discussed in the meeting.

TRANSCRIPT:
%s

CONCISE SUMMARY:`

const actionItemsPrompt = `Analyze the following meeting transcript and extract all clear action items assigned to individuals or the group.
List each action item as a bullet point. If no action items are found, respond with "No action items identified.".

TRANSCRIPT:
%s

ACTION ITEMS:`

const decisionsPrompt = `Review the following meeting transcript and identify all explicit decisions made by the participants.
List each decision as a bullet point. If no decisions are found, respond with "No decisions identified.".

TRANSCRIPT:
%s

DECISIONS MADE:`
